package optout

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
)

type Checker struct {
	common.DefaultChecker

	Context  *context.Context
	Storage  *Storage
	VoteID   uint64
	VotingID uint64
	Vote     governance.VoteParams
}

func NewChecker(ctx *context.Context, s *Storage, funcs []common.CheckerFunc) *Checker {
	return &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: funcs},
		Context:        ctx,
		Storage:        s,
	}
}

var (
	StartCheckerFuncs = []common.CheckerFunc{
		CheckPollLeaderRegistered,
		CheckPhase2ContractRegistered,
		CheckNoVoteInProgress,
		CheckPollLeader,
	}

	Phase1VoteCheckerFuncs = []common.CheckerFunc{
		CheckPollLeader,
		CheckVoterAddress,
		CheckNotVoted,
		CheckVoteID,
		CheckVotingWindow,
		CheckObjection,
		CheckObjectionTally,
	}

	Phase2VoteCheckerFuncs = []common.CheckerFunc{
		CheckPollLeader,
		CheckVoteID,
		CheckVoteValue,
	}

	Phase1EndCheckerFuncs = []common.CheckerFunc{
		CheckPollLeader,
		CheckVoteID,
		CheckVotingEnded,
	}

	Phase2EndCheckerFuncs = []common.CheckerFunc{
		CheckPollLeader,
		CheckVoteID,
	}

	ProposeCallbackCheckerFuncs = []common.CheckerFunc{
		CheckPhase2Caller,
		CheckStartingPhase2,
	}

	EndCallbackCheckerFuncs = []common.CheckerFunc{
		CheckPhase2Caller,
		CheckEndingPhase2,
		CheckOutcomeNotRecorded,
		CheckVotingID,
	}
)

func CheckPollLeaderRegistered(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if len(checker.Storage.PollLeader) < 1 {
		err = errors.PollLeaderNotRegistered
		return
	}

	return
}

func CheckPhase2ContractRegistered(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if len(checker.Storage.Phase2Contract) < 1 {
		err = errors.Phase2ContractNotRegistered
		return
	}

	return
}

func CheckNoVoteInProgress(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Storage.State != StateNone {
		err = errors.VoteInProgress
		return
	}

	return
}

func CheckPollLeader(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	leader := checker.Storage.PollLeader
	if len(leader) < 1 || checker.Context.Sender != leader {
		err = errors.Unauthorized
		return
	}

	return
}

func CheckVoterAddress(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if len(checker.Vote.Address) < 1 {
		err = errors.InvalidAddress
		return
	}

	return
}

func CheckNotVoted(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, found := checker.Storage.Poll.Phase1Voters[checker.Vote.Address]; found {
		err = errors.AlreadyVoted
		return
	}

	return
}

func CheckVoteID(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.VoteID != checker.Storage.Poll.VoteID {
		err = errors.InvalidVoteId
		return
	}

	return
}

func CheckVotingWindow(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if !checker.Storage.Poll.InWindow(checker.Context.Level) {
		err = errors.VotingWindowClosed
		return
	}

	return
}

// CheckObjection accepts only NAY; phase 1 counts objections and nothing
// else.
func CheckObjection(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Vote.VoteValue != governance.Nay {
		err = errors.InvalidVoteValue
		return
	}

	return
}

func CheckObjectionTally(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, ok := common.AddVotes(checker.Storage.Poll.Phase1Objection, checker.Vote.Votes); !ok {
		err = errors.TallyOverflow.Clone().SetData("votes", checker.Vote.Votes)
		return
	}

	return
}

func CheckVoteValue(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if !checker.Vote.VoteValue.Valid() {
		err = errors.InvalidVoteValue
		return
	}

	return
}

func CheckVotingEnded(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Context.Level <= checker.Storage.Poll.VotingEndLevel {
		err = errors.VotingNotEnded
		return
	}

	return
}

// CheckPhase2Caller makes sure a callback comes from the registered phase 2
// engine.
func CheckPhase2Caller(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	phase2 := checker.Storage.Phase2Contract
	if len(phase2) < 1 || checker.Context.Sender != phase2 {
		err = errors.InvalidVotingStrategy
		return
	}

	return
}

func CheckStartingPhase2(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Storage.State != StateStartingPhase2 || checker.Storage.Poll == nil {
		err = errors.NoVoteOpen
		return
	}

	return
}

func CheckEndingPhase2(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Storage.State != StateEndingPhase2 || checker.Storage.Poll == nil {
		err = errors.NoVoteOpen
		return
	}

	return
}

func CheckOutcomeNotRecorded(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	var recorded bool
	if recorded, err = governance.HasOutcome(checker.Context.Storage, checker.Context.Self, checker.Storage.Poll.VoteID); err != nil {
		return
	}
	if recorded {
		err = errors.OutcomeAlreadyRecorded
		return
	}

	return
}

func CheckVotingID(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.VotingID != checker.Storage.Poll.Phase2VoteID {
		err = errors.InvalidVoteId
		return
	}

	return
}
