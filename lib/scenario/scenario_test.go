package scenario

import (
	"os"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"boscoin.io/dao/lib/common/keypair"
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/governance/leader"
	"boscoin.io/dao/lib/governance/majority"
	"boscoin.io/dao/lib/governance/optout"
	"boscoin.io/dao/lib/ledger"
	"boscoin.io/dao/lib/storage"
)

func newTestRunner(t *testing.T, mode contract.DeliveryMode) *Runner {
	h, err := contract.NewHost(storage.NewTestStorage(), mode)
	require.NoError(t, err)

	l, err := ledger.New(16)
	require.NoError(t, err)

	return NewRunner(h, l)
}

func TestLoad(t *testing.T) {
	s, err := LoadFile("testdata/majority.yml")
	require.NoError(t, err)
	require.Equal(t, "isolated", s.Delivery)
	require.Equal(t, []string{"admin", "alice", "bob"}, s.Actors)
	require.Equal(t, 1, len(s.Contracts))
	require.Equal(t, KindMajority, s.Contracts[0].Kind)
	require.Equal(t, uint64(10), s.Contracts[0].Quorum)
	require.Equal(t, "call", s.Steps[0].Kind())
	require.Equal(t, "advance", s.Steps[2].Kind())
	require.Equal(t, "level", s.Steps[7].Kind())
	require.Equal(t, uint(125), s.Steps[5].ExpectError)
	require.Equal(t, 1, *s.Steps[1].ExpectDropped)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown field": `
actors: [alice]
whatever: 1
`,
		"unknown kind": `
contracts:
  - {name: engine, kind: plurality, admin: alice}
`,
		"missing admin": `
contracts:
  - {name: engine, kind: majority}
`,
		"duplicated name": `
actors: [alice]
contracts:
  - {name: alice, kind: majority, admin: alice}
`,
		"two actions": `
steps:
  - {advance: 1, level: 3}
`,
		"empty step": `
steps:
  - {}
`,
		"expectation without call": `
steps:
  - {advance: 1, expect_error: 120}
`,
	}

	for name, body := range cases {
		_, err := Load(strings.NewReader(body))
		require.Error(t, err, name)
		require.True(t, errors.InvalidScenario.Is(err), name)
	}
}

func TestRunMajority(t *testing.T) {
	s, err := LoadFile("testdata/majority.yml")
	require.NoError(t, err)

	r := newTestRunner(t, contract.DeliveryIsolated)
	defer r.Host().Storage().Close()

	report, err := r.Run(s)
	require.NoError(t, err)
	require.Equal(t, "isolated", report.Delivery)
	require.Equal(t, uint64(4), report.Level)
	require.Equal(t, len(s.Steps), len(report.Steps))
	require.Equal(t, keypair.ActorAddress("alice"), report.Actors["alice"])
	require.Equal(t, keypair.ContractAddress("engine"), report.Contracts["engine"])

	require.Equal(t, errors.AlreadyVoted.Code, report.Steps[5].Error.Code)
	require.Equal(t, errors.Unauthorized.Code, report.Steps[6].Error.Code)

	outcome, found := report.Outcome("engine", 0)
	require.True(t, found)
	require.Equal(t, governance.Passed, outcome.Outcome.Outcome)

	var poll majority.Poll
	require.NoError(t, outcome.DecodePoll(&poll))
	require.Equal(t, uint64(40), poll.VoteYay)
	require.Equal(t, uint64(10), poll.VoteNay)

	engine, err := majority.Load(r.Host().Storage(), report.Contracts["engine"])
	require.NoError(t, err)
	require.Equal(t, majority.StateNone, engine.State)
	require.Equal(t, uint64(18), engine.DynamicQuorum)
	require.NotNil(t, report.Storage["engine"])
}

func TestRunLeaderWithMajority(t *testing.T) {
	s, err := LoadFile("testdata/leader.yml")
	require.NoError(t, err)

	r := newTestRunner(t, contract.DeliveryAtomic)
	defer r.Host().Storage().Close()

	report, err := r.Run(s)
	require.NoError(t, err)
	require.Equal(t, "atomic", report.Delivery)
	require.Equal(t, []string{"engine", "token"}, report.Names())

	for _, name := range []string{"engine", "token"} {
		outcome, found := report.Outcome(name, 0)
		require.True(t, found, name)
		require.Equal(t, governance.Passed, outcome.Outcome.Outcome, name)
	}

	outcome, _ := report.Outcome("token", 0)
	var proposal leader.Proposal
	require.NoError(t, outcome.DecodePoll(&proposal))
	require.Equal(t, "raise the budget", proposal.Description)
	require.Equal(t, report.Actors["alice"], proposal.Proposer)
	require.Equal(t, uint64(60), proposal.Casts[report.Actors["alice"]])
	require.Equal(t, 3, len(proposal.Casts))

	engine, err := majority.Load(r.Host().Storage(), report.Contracts["engine"])
	require.NoError(t, err)
	require.Equal(t, uint64(60), engine.DynamicQuorum)

	token, err := leader.Load(r.Host().Storage(), report.Contracts["token"])
	require.NoError(t, err)
	require.Nil(t, token.Proposal)
	require.Equal(t, uint64(1), token.ResultCount)
}

func TestRunOptOutEscalation(t *testing.T) {
	s, err := LoadFile("testdata/optout.yml")
	require.NoError(t, err)

	r := newTestRunner(t, contract.DeliveryIsolated)
	defer r.Host().Storage().Close()

	report, err := r.Run(s)
	require.NoError(t, err)

	for _, name := range []string{"phase2", "optout", "token"} {
		outcome, found := report.Outcome(name, 0)
		require.True(t, found, name)
		require.Equal(t, governance.Passed, outcome.Outcome.Outcome, name)
	}

	outcome, _ := report.Outcome("optout", 0)
	var poll optout.Poll
	require.NoError(t, outcome.DecodePoll(&poll))
	require.True(t, poll.Phase2Needed)
	require.Equal(t, uint64(30), poll.Phase1Objection)

	engine, err := optout.Load(r.Host().Storage(), report.Contracts["optout"])
	require.NoError(t, err)
	require.Equal(t, optout.StateNone, engine.State)

	phase2, err := majority.Load(r.Host().Storage(), report.Contracts["phase2"])
	require.NoError(t, err)
	require.Equal(t, uint64(22), phase2.DynamicQuorum)
}

func TestRunStopsAtUnexpectedResult(t *testing.T) {
	s, err := Load(strings.NewReader(`
actors: [admin]
contracts:
  - {name: engine, kind: majority, admin: admin}
steps:
  - call: {sender: admin, contract: engine, method: set_poll_leader, args: {address: admin}}
    expect_error: 120
  - advance: 3
`))
	require.NoError(t, err)

	r := newTestRunner(t, contract.DeliveryIsolated)
	defer r.Host().Storage().Close()

	report, err := r.Run(s)
	require.Error(t, err)
	require.True(t, errors.UnexpectedStepSuccess.Is(err))
	require.Equal(t, 1, len(report.Steps))
	require.Equal(t, uint64(0), report.Level)

	s, err = Load(strings.NewReader(`
actors: [admin]
contracts:
  - {name: engine, kind: majority, admin: admin}
steps:
  - call: {sender: admin, contract: engine, method: end, args: {vote_id: 0}}
`))
	require.NoError(t, err)

	r = newTestRunner(t, contract.DeliveryIsolated)
	defer r.Host().Storage().Close()

	_, err = r.Run(s)
	require.True(t, errors.ScenarioStepFailed.Is(err))
}

func TestRunDeliveryMismatch(t *testing.T) {
	s, err := LoadFile("testdata/leader.yml")
	require.NoError(t, err)

	r := newTestRunner(t, contract.DeliveryIsolated)
	defer r.Host().Storage().Close()

	_, err = r.Run(s)
	require.True(t, errors.InvalidScenario.Is(err))
}

func TestPlay(t *testing.T) {
	s, err := LoadFile("testdata/leader.yml")
	require.NoError(t, err)

	st := storage.NewTestStorage()
	defer st.Close()

	report, err := Play(st, s)
	require.NoError(t, err)
	require.Equal(t, "atomic", report.Delivery)
	require.Equal(t, uint64(8), report.Level)
}

func TestNormalize(t *testing.T) {
	names := map[string]string{"alice": "GALICE", "engine": "KT1engine"}

	v := normalize(names, map[interface{}]interface{}{
		"address": "alice",
		"list":    []interface{}{"engine", "bob", 3},
		1:         map[interface{}]interface{}{"to": "alice"},
	})
	require.Equal(t, map[string]interface{}{
		"address": "GALICE",
		"list":    []interface{}{"KT1engine", "bob", 3},
		"1":       map[string]interface{}{"to": "GALICE"},
	}, v)
}

func TestDeployKeepsStorage(t *testing.T) {
	s, err := LoadFile("testdata/majority.yml")
	require.NoError(t, err)

	r := newTestRunner(t, contract.DeliveryIsolated)
	defer r.Host().Storage().Close()

	_, err = r.Run(s)
	require.NoError(t, err)

	// a new host over the same storage, as after a restart
	h, err := contract.NewHost(r.Host().Storage(), contract.DeliveryIsolated)
	require.NoError(t, err)
	require.Equal(t, uint64(4), h.Level())

	l, err := ledger.New(16)
	require.NoError(t, err)

	names, err := NewRunner(h, l).Deploy(s)
	require.NoError(t, err)
	require.Equal(t, keypair.ActorAddress("admin"), names["admin"])

	engine, err := majority.Load(h.Storage(), names["engine"])
	require.NoError(t, err)
	require.Equal(t, uint64(18), engine.DynamicQuorum)
	require.Equal(t, uint64(1), engine.OutcomeCount)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/missing.yml")
	require.Error(t, err)
	require.True(t, os.IsNotExist(pkgerrors.Cause(err)))
}
