package optout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/contract/native"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/governance/majority"
	"boscoin.io/dao/lib/storage"
)

const (
	engineAddress = "KT1optout"
	phase2Address = "KT1phase2"
	leaderAddress = "KT1leader"
	adminAddress  = "tz1admin"
)

type call struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Args     string `json:"args"`
}

// callRecorder accepts the given methods and keeps every call it gets, in
// order, under its own address.
type callRecorder struct {
	methods []string
}

func (r *callRecorder) Register(ex *native.NativeExecutor) {
	for _, method := range r.methods {
		ex.RegisterFunc(method, func(ex *native.NativeExecutor, code *payload.ExecCode) error {
			calls, err := loadCalls(ex.Context.Storage, ex.Context.Self)
			if err != nil {
				return err
			}
			calls = append(calls, call{Contract: ex.Context.Self, Method: code.Method, Args: string(code.Args)})
			return ex.Context.Storage.Put("calls-"+ex.Context.Self, calls)
		})
	}
}

func loadCalls(st *storage.LevelDBBackend, address string) (calls []call, err error) {
	var exists bool
	if exists, err = st.Has("calls-" + address); err != nil || !exists {
		return
	}
	err = st.Get("calls-"+address, &calls)
	return
}

type testEngine struct {
	*testing.T
	host *contract.Host
}

func testParams() Params {
	return Params{VoteDelay: 2, VoteLength: 5, ObjectionPercentage: 10}
}

// newTestEngine deploys the opt-out engine with a recording poll leader.
// When phase2 is nil a recorder stands in for the phase 2 engine, so the
// callbacks have to be submitted by hand.
func newTestEngine(t *testing.T, mode contract.DeliveryMode, phase2 contract.Contract) *testEngine {
	h, err := contract.NewHost(storage.NewTestStorage(), mode)
	require.NoError(t, err)

	require.NoError(t, h.Deploy(engineAddress, New(adminAddress, testParams())))
	require.NoError(t, h.Deploy(leaderAddress, &callRecorder{
		methods: []string{governance.EntryProposeCallback, governance.EntryEndCallback},
	}))

	if phase2 == nil {
		phase2 = &callRecorder{methods: []string{governance.EntryStart, governance.EntryVote, governance.EntryEnd}}
	}
	require.NoError(t, h.Deploy(phase2Address, phase2))

	te := &testEngine{T: t, host: h}
	require.NoError(t, te.submit(adminAddress, governance.EntrySetPollLeader, governance.AddressParams{Address: leaderAddress}))
	require.NoError(t, te.submit(adminAddress, governance.EntrySetPhase2Contract, governance.AddressParams{Address: phase2Address}))

	return te
}

func newMajorityPhase2() *majority.Engine {
	params := majority.NewDefaultParams()
	params.VoteDelay = 1
	params.VoteLength = 5
	return majority.New(adminAddress, params, 50)
}

func (te *testEngine) close() {
	te.host.Storage().Close()
}

func (te *testEngine) submit(sender, method string, args interface{}) error {
	_, err := te.host.Submit(sender, payload.MustNewExecCode(engineAddress, method, args))
	return err
}

func (te *testEngine) start(total uint64) error {
	return te.submit(leaderAddress, governance.EntryStart, governance.StartParams{TotalAvailableVoters: total})
}

func (te *testEngine) vote(address string, value governance.VoteValue, votes, voteID uint64) error {
	return te.submit(leaderAddress, governance.EntryVote, governance.VoteParams{
		Votes:     votes,
		Address:   address,
		VoteValue: value,
		VoteID:    voteID,
	})
}

func (te *testEngine) end(voteID uint64) (*contract.Receipt, error) {
	return te.host.Submit(leaderAddress, payload.MustNewExecCode(engineAddress, governance.EntryEnd, governance.EndParams{VoteID: voteID}))
}

func (te *testEngine) setLevel(level uint64) {
	require.NoError(te, te.host.SetLevel(level))
}

func (te *testEngine) storage() *Storage {
	s, err := Load(te.host.Storage(), engineAddress)
	require.NoError(te, err)
	return s
}

func (te *testEngine) calls(address string) []call {
	calls, err := loadCalls(te.host.Storage(), address)
	require.NoError(te, err)
	return calls
}

func TestStartRequiresRegisteredAddresses(t *testing.T) {
	h, err := contract.NewHost(storage.NewTestStorage(), contract.DeliveryIsolated)
	require.NoError(t, err)
	defer h.Storage().Close()

	require.NoError(t, h.Deploy(engineAddress, New(adminAddress, testParams())))

	submit := func(sender, method string, args interface{}) error {
		_, err := h.Submit(sender, payload.MustNewExecCode(engineAddress, method, args))
		return err
	}

	start := governance.StartParams{TotalAvailableVoters: 100}
	require.Equal(t, errors.PollLeaderNotRegistered, submit(leaderAddress, governance.EntryStart, start))

	require.NoError(t, submit(adminAddress, governance.EntrySetPollLeader, governance.AddressParams{Address: leaderAddress}))
	require.Equal(t, errors.Phase2ContractNotRegistered, submit(leaderAddress, governance.EntryStart, start))

	require.Equal(t, errors.Unauthorized, submit("tz1mallory", governance.EntrySetPhase2Contract, governance.AddressParams{Address: phase2Address}))
	require.NoError(t, submit(adminAddress, governance.EntrySetPhase2Contract, governance.AddressParams{Address: phase2Address}))
	require.Equal(t, errors.AlreadyRegistered, submit(adminAddress, governance.EntrySetPhase2Contract, governance.AddressParams{Address: "KT1other"}))

	require.Equal(t, errors.Unauthorized, submit("tz1mallory", governance.EntryStart, start))
}

func TestStart(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, nil)
	defer te.close()

	te.setLevel(10)
	require.NoError(t, te.start(100))

	s := te.storage()
	require.Equal(t, StatePhase1, s.State)
	require.Equal(t, uint64(10), s.Poll.ObjectionThreshold)
	require.Equal(t, uint64(100), s.Poll.TotalVoters)
	require.Equal(t, uint64(12), s.Poll.VotingStartLevel)
	require.Equal(t, uint64(17), s.Poll.VotingEndLevel)
	require.Equal(t, uint64(0), s.Poll.Phase1Objection)
	require.False(t, s.Poll.Phase2Needed)
	require.Empty(t, s.Poll.Phase1Voters)

	calls := te.calls(leaderAddress)
	require.Equal(t, 1, len(calls))
	require.Equal(t, governance.EntryProposeCallback, calls[0].Method)
	require.JSONEq(t, `{"vote_id":0,"start_level":12}`, calls[0].Args)

	require.Equal(t, errors.VoteInProgress, te.start(100))
}

func TestPhase1WithoutEscalation(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, nil)
	defer te.close()

	require.NoError(t, te.start(100))
	te.setLevel(2)
	require.NoError(t, te.vote("tz1a", governance.Nay, 5, 0))
	require.NoError(t, te.vote("tz1b", governance.Nay, 4, 0))
	require.Equal(t, uint64(9), te.storage().Poll.Phase1Objection)

	te.setLevel(8)
	receipt, err := te.end(0)
	require.NoError(t, err)
	require.Equal(t, 2, len(receipt.Calls))

	outcome, err := governance.GetOutcome(te.host.Storage(), engineAddress, 0)
	require.NoError(t, err)
	require.Equal(t, governance.Passed, outcome.Outcome)

	var poll Poll
	require.NoError(t, outcome.DecodePoll(&poll))
	require.Equal(t, uint64(9), poll.Phase1Objection)
	require.Equal(t, 2, len(poll.Phase1Voters))

	calls := te.calls(leaderAddress)
	require.Equal(t, 2, len(calls))
	require.Equal(t, governance.EntryEndCallback, calls[1].Method)
	require.JSONEq(t, `{"voting_id":0,"voting_outcome":"PASSED"}`, calls[1].Args)

	s := te.storage()
	require.Equal(t, StateNone, s.State)
	require.Equal(t, uint64(1), s.VoteID)
	require.Nil(t, s.Poll)

	// phase 2 never heard of it
	require.Empty(t, te.calls(phase2Address))
}

func TestPhase1Votes(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, nil)
	defer te.close()

	require.Equal(t, errors.NoVoteOpen, te.vote("tz1a", governance.Nay, 1, 0))

	require.NoError(t, te.start(100))

	te.setLevel(1)
	require.Equal(t, errors.VotingWindowClosed, te.vote("tz1a", governance.Nay, 1, 0))

	te.setLevel(2)
	require.Equal(t, errors.InvalidVoteValue, te.vote("tz1a", governance.Yay, 1, 0))
	require.Equal(t, errors.InvalidVoteValue, te.vote("tz1a", governance.Abstain, 1, 0))
	require.Equal(t, errors.InvalidVoteId, te.vote("tz1a", governance.Nay, 1, 1))

	err := te.submit("tz1mallory", governance.EntryVote, governance.VoteParams{Votes: 1, Address: "tz1a", VoteValue: governance.Nay})
	require.Equal(t, errors.Unauthorized, err)

	require.NoError(t, te.vote("tz1a", governance.Nay, 3, 0))
	require.Equal(t, errors.AlreadyVoted, te.vote("tz1a", governance.Nay, 3, 0))
	require.Equal(t, uint64(3), te.storage().Poll.Phase1Objection)

	te.setLevel(7)
	_, err = te.end(0)
	require.Equal(t, errors.VotingNotEnded, err)
	require.NoError(t, te.vote("tz1b", governance.Nay, 1, 0))

	te.setLevel(8)
	require.Equal(t, errors.VotingWindowClosed, te.vote("tz1c", governance.Nay, 1, 0))
}

func TestObjectionOverflow(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, nil)
	defer te.close()

	require.NoError(t, te.start(100))
	te.setLevel(2)
	require.NoError(t, te.vote("tz1a", governance.Nay, math.MaxUint64, 0))

	err := te.vote("tz1b", governance.Nay, 2, 0)
	require.True(t, errors.TallyOverflow.Is(err))

	poll := te.storage().Poll
	require.Equal(t, uint64(math.MaxUint64), poll.Phase1Objection)
	require.Equal(t, 1, len(poll.Phase1Voters))
}

func TestEscalation(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, nil)
	defer te.close()

	require.NoError(t, te.start(100))
	te.setLevel(2)
	require.NoError(t, te.vote("tz1a", governance.Nay, 6, 0))
	require.NoError(t, te.vote("tz1b", governance.Nay, 4, 0))

	te.setLevel(8)
	_, err := te.end(0)
	require.NoError(t, err)

	s := te.storage()
	require.Equal(t, StateStartingPhase2, s.State)
	require.True(t, s.Poll.Phase2Needed)
	require.Equal(t, uint64(0), s.VoteID)

	// phase 2 is started with the number of voters
	calls := te.calls(phase2Address)
	require.Equal(t, 1, len(calls))
	require.Equal(t, governance.EntryStart, calls[0].Method)
	require.JSONEq(t, `{"total_available_voters":100}`, calls[0].Args)

	// the leader got the propose callback only, nothing is recorded
	require.Equal(t, 1, len(te.calls(leaderAddress)))
	exists, err := governance.HasOutcome(te.host.Storage(), engineAddress, 0)
	require.NoError(t, err)
	require.False(t, exists)

	// nothing but the phase 2 callback moves the poll on
	require.Equal(t, errors.NoVoteOpen, te.vote("tz1c", governance.Nay, 1, 0))
	_, err = te.end(0)
	require.Equal(t, errors.NoVoteOpen, err)
	require.Equal(t, errors.VoteInProgress, te.start(100))

	require.NoError(t, te.submit(phase2Address, governance.EntryProposeCallback, governance.ProposeCallbackParams{VoteID: 7, StartLevel: 9}))
	s = te.storage()
	require.Equal(t, StatePhase2, s.State)
	require.Equal(t, uint64(7), s.Poll.Phase2VoteID)
	require.Equal(t, uint64(9), s.Poll.Phase2StartLevel)

	// votes are relayed with the phase 2 id once the outer id and value check out
	require.NoError(t, te.vote("tz1c", governance.Yay, 30, 0))
	require.Equal(t, errors.InvalidVoteId, te.vote("tz1c", governance.Yay, 30, 7))
	require.Equal(t, errors.InvalidVoteValue, te.vote("tz1c", governance.InvalidVoteValue, 30, 0))
	calls = te.calls(phase2Address)
	require.Equal(t, 2, len(calls))
	require.Equal(t, governance.EntryVote, calls[1].Method)
	require.JSONEq(t, `{"votes":30,"address":"tz1c","vote_value":"yay","vote_id":7}`, calls[1].Args)

	_, err = te.end(0)
	require.NoError(t, err)
	require.Equal(t, StateEndingPhase2, te.storage().State)
	calls = te.calls(phase2Address)
	require.Equal(t, governance.EntryEnd, calls[2].Method)
	require.JSONEq(t, `{"vote_id":7}`, calls[2].Args)

	require.Equal(t, errors.InvalidVoteId, te.submit(phase2Address, governance.EntryEndCallback, governance.EndCallbackParams{VotingID: 0, VotingOutcome: governance.Failed}))
	require.NoError(t, te.submit(phase2Address, governance.EntryEndCallback, governance.EndCallbackParams{VotingID: 7, VotingOutcome: governance.Failed}))

	outcome, err := governance.GetOutcome(te.host.Storage(), engineAddress, 0)
	require.NoError(t, err)
	require.Equal(t, governance.Failed, outcome.Outcome)

	var poll Poll
	require.NoError(t, outcome.DecodePoll(&poll))
	require.Equal(t, uint64(10), poll.Phase1Objection)
	require.True(t, poll.Phase2Needed)
	require.Equal(t, uint64(7), poll.Phase2VoteID)

	leaderCalls := te.calls(leaderAddress)
	require.Equal(t, 2, len(leaderCalls))
	require.JSONEq(t, `{"voting_id":0,"voting_outcome":"FAILED"}`, leaderCalls[1].Args)

	s = te.storage()
	require.Equal(t, StateNone, s.State)
	require.Equal(t, uint64(1), s.VoteID)
	require.Equal(t, uint64(1), s.OutcomeCount)
}

func TestCallbackAuthorization(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, nil)
	defer te.close()

	propose := governance.ProposeCallbackParams{VoteID: 0, StartLevel: 9}
	ended := governance.EndCallbackParams{VotingID: 0, VotingOutcome: governance.Passed}

	// wrong state
	require.Equal(t, errors.NoVoteOpen, te.submit(phase2Address, governance.EntryProposeCallback, propose))
	require.Equal(t, errors.NoVoteOpen, te.submit(phase2Address, governance.EntryEndCallback, ended))

	require.NoError(t, te.start(100))
	te.setLevel(2)
	require.NoError(t, te.vote("tz1a", governance.Nay, 50, 0))
	te.setLevel(8)
	_, err := te.end(0)
	require.NoError(t, err)

	// whatever the payload, only the phase 2 engine may call back
	for _, sender := range []string{"tz1mallory", leaderAddress, adminAddress, engineAddress} {
		require.Equal(t, errors.InvalidVotingStrategy, te.submit(sender, governance.EntryProposeCallback, propose))
		require.Equal(t, errors.InvalidVotingStrategy, te.submit(sender, governance.EntryEndCallback, ended))
	}
	require.Equal(t, StateStartingPhase2, te.storage().State)

	require.NoError(t, te.submit(phase2Address, governance.EntryProposeCallback, propose))
	require.Equal(t, errors.NoVoteOpen, te.submit(phase2Address, governance.EntryProposeCallback, propose))

	_, err = te.end(0)
	require.NoError(t, err)
	for _, sender := range []string{"tz1mallory", leaderAddress} {
		require.Equal(t, errors.InvalidVotingStrategy, te.submit(sender, governance.EntryEndCallback, ended))
	}
	require.NoError(t, te.submit(phase2Address, governance.EntryEndCallback, ended))
	require.Equal(t, errors.NoVoteOpen, te.submit(phase2Address, governance.EntryEndCallback, ended))
}

func TestPhase2WithMajorityEngine(t *testing.T) {
	te := newTestEngine(t, contract.DeliveryIsolated, newMajorityPhase2())
	defer te.close()

	require.NoError(t, te.host.SetLevel(0))
	_, err := te.host.Submit(adminAddress, payload.MustNewExecCode(
		phase2Address,
		governance.EntrySetPollLeader,
		governance.AddressParams{Address: engineAddress},
	))
	require.NoError(t, err)

	// poll 0 passes without objection
	require.NoError(t, te.start(100))
	te.setLevel(8)
	_, err = te.end(0)
	require.NoError(t, err)

	// poll 1 is escalated; it becomes poll 0 of the majority engine
	require.NoError(t, te.start(100)) // window [10, 15]
	te.setLevel(10)
	require.NoError(t, te.vote("tz1a", governance.Nay, 6, 1))
	require.NoError(t, te.vote("tz1b", governance.Nay, 4, 1))

	te.setLevel(16)
	receipt, err := te.end(1)
	require.NoError(t, err)
	require.Empty(t, receipt.Dropped())

	// end, phase 2 start, its propose callback
	require.Equal(t, 3, len(receipt.Calls))
	require.Equal(t, phase2Address, receipt.Calls[1].Contract)
	require.Equal(t, governance.EntryStart, receipt.Calls[1].Method)
	require.Equal(t, engineAddress, receipt.Calls[2].Contract)
	require.Equal(t, governance.EntryProposeCallback, receipt.Calls[2].Method)

	s := te.storage()
	require.Equal(t, StatePhase2, s.State)
	require.Equal(t, uint64(1), s.VoteID)
	require.Equal(t, uint64(0), s.Poll.Phase2VoteID)
	require.Equal(t, uint64(17), s.Poll.Phase2StartLevel)

	phase2, err := majority.Load(te.host.Storage(), phase2Address)
	require.NoError(t, err)
	require.Equal(t, majority.StateInProgress, phase2.State)

	te.setLevel(17)
	require.NoError(t, te.vote("tz1c", governance.Yay, 60, 1))
	require.NoError(t, te.vote("tz1d", governance.Nay, 5, 1))
	require.NoError(t, te.vote("tz1e", governance.Abstain, 5, 1))

	phase2, err = majority.Load(te.host.Storage(), phase2Address)
	require.NoError(t, err)
	require.Equal(t, uint64(60), phase2.Poll.VoteYay)
	require.Equal(t, uint64(70), phase2.Poll.TotalVotes)

	te.setLevel(23)
	receipt, err = te.end(1)
	require.NoError(t, err)
	require.Empty(t, receipt.Dropped())
	require.Equal(t, 4, len(receipt.Calls))
	require.Equal(t, leaderAddress, receipt.Calls[3].Contract)

	outcome, err := governance.GetOutcome(te.host.Storage(), engineAddress, 1)
	require.NoError(t, err)
	require.Equal(t, governance.Passed, outcome.Outcome)

	phase2Outcome, err := governance.GetOutcome(te.host.Storage(), phase2Address, 0)
	require.NoError(t, err)
	require.Equal(t, governance.Passed, phase2Outcome.Outcome)

	leaderCalls := te.calls(leaderAddress)
	require.Equal(t, 4, len(leaderCalls))
	require.JSONEq(t, `{"voting_id":1,"voting_outcome":"PASSED"}`, leaderCalls[3].Args)

	s = te.storage()
	require.Equal(t, StateNone, s.State)
	require.Equal(t, uint64(2), s.VoteID)
	require.Equal(t, uint64(2), s.OutcomeCount)

	phase2, err = majority.Load(te.host.Storage(), phase2Address)
	require.NoError(t, err)
	require.Equal(t, majority.StateNone, phase2.State)
	require.Equal(t, uint64(1), phase2.VoteID)
}

func TestPhase2EndTooEarly(t *testing.T) {
	run := func(mode contract.DeliveryMode) *testEngine {
		te := newTestEngine(t, mode, newMajorityPhase2())
		_, err := te.host.Submit(adminAddress, payload.MustNewExecCode(
			phase2Address,
			governance.EntrySetPollLeader,
			governance.AddressParams{Address: engineAddress},
		))
		require.NoError(t, err)

		require.NoError(t, te.start(100))
		te.setLevel(2)
		require.NoError(t, te.vote("tz1a", governance.Nay, 10, 0))
		te.setLevel(8)
		_, err = te.end(0)
		require.NoError(t, err)
		require.Equal(t, StatePhase2, te.storage().State)
		return te
	}

	// the majority engine refuses to end before its window closed. With
	// isolated delivery its refusal is dropped and the opt-out engine waits
	// for an end callback which never comes.
	te := run(contract.DeliveryIsolated)
	receipt, err := te.end(0)
	require.NoError(t, err)
	require.Equal(t, 1, len(receipt.Dropped()))
	require.Equal(t, errors.VotingNotEnded, receipt.Dropped()[0].Error)
	require.Equal(t, StateEndingPhase2, te.storage().State)
	te.close()

	// with atomic delivery the whole end is refused
	te = run(contract.DeliveryAtomic)
	_, err = te.end(0)
	require.Equal(t, errors.VotingNotEnded, err)
	require.Equal(t, StatePhase2, te.storage().State)

	te.setLevel(15)
	_, err = te.end(0)
	require.NoError(t, err)
	require.Equal(t, StateNone, te.storage().State)
	te.close()
}
