package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/dao/lib/api/httpcache"
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/governance/leader"
	"boscoin.io/dao/lib/governance/majority"
	"boscoin.io/dao/lib/ledger"
	"boscoin.io/dao/lib/storage"
)

const (
	leaderAddress = "KT1leader"
	engineAddress = "KT1engine"
	adminAddress  = "tz1admin"
)

type testServer struct {
	*httptest.Server
	host  *contract.Host
	cache *httpcache.MemCacheAdapter
}

func (ts *testServer) close() {
	ts.Close()
	ts.host.Storage().Close()
}

// prepareAPIServer serves a host with a token leader driving a majority
// engine; tz1alice holds 70 and tz1bob 30 tokens.
func prepareAPIServer(t *testing.T, config RouterConfig) *testServer {
	h, err := contract.NewHost(storage.NewTestStorage(), contract.DeliveryIsolated)
	require.NoError(t, err)

	l, err := ledger.New(0)
	require.NoError(t, err)

	params := majority.NewDefaultParams()
	params.VoteDelay = 1
	params.VoteLength = 2
	params.SupermajorityPercentage = 60

	require.NoError(t, h.Deploy(leaderAddress, leader.New(adminAddress, l)))
	require.NoError(t, h.Deploy(engineAddress, majority.New(adminAddress, params, 10)))

	submit := func(address, method string, args interface{}) {
		_, err := h.Submit(adminAddress, payload.MustNewExecCode(address, method, args))
		require.NoError(t, err)
	}
	submit(engineAddress, governance.EntrySetPollLeader, governance.AddressParams{Address: leaderAddress})
	submit(leaderAddress, leader.EntrySetEngine, governance.AddressParams{Address: engineAddress})
	submit(leaderAddress, leader.EntryMint, leader.TokenParams{To: "tz1alice", Amount: 70})
	submit(leaderAddress, leader.EntryMint, leader.TokenParams{To: "tz1bob", Amount: 30})

	ts := &testServer{host: h}
	if config.Cache == nil {
		ts.cache, err = httpcache.NewMemCacheAdapter(10)
		require.NoError(t, err)
		config.Cache, err = httpcache.NewClient(httpcache.WithAdapter(ts.cache), httpcache.WithFilter(IsImmutable))
		require.NoError(t, err)
	}

	router, err := NewRouter(NewNetworkHandlerAPI(h, ""), config)
	require.NoError(t, err)
	ts.Server = httptest.NewServer(router)

	return ts
}

// recordOutcomes archives n outcomes for the engine.
func recordOutcomes(t *testing.T, h *contract.Host, n int) {
	for i := 0; i < n; i++ {
		o, err := governance.NewOutcome(governance.PollOutcome(i%2), map[string]int{"poll": i})
		require.NoError(t, err)
		require.NoError(t, governance.RecordOutcome(h.Storage(), engineAddress, uint64(i), o))
	}
}
