package majority

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
)

type Checker struct {
	common.DefaultChecker

	Context *context.Context
	Storage *Storage
	VoteID  uint64
	Vote    governance.VoteParams
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
		CheckNoVoteInProgress,
		CheckPollLeader,
	}

	VoteCheckerFuncs = []common.CheckerFunc{
		CheckPollLeader,
		CheckVoteOpen,
		CheckVoterAddress,
		CheckNotVoted,
		CheckVoteID,
		CheckVotingWindow,
		CheckVoteValue,
		CheckTally,
	}

	EndCheckerFuncs = []common.CheckerFunc{
		CheckPollLeader,
		CheckVoteOpen,
		CheckVoteID,
		CheckVotingEnded,
	}
)

func CheckPollLeader(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	leader := checker.Storage.PollLeader
	if len(leader) < 1 || checker.Context.Sender != leader {
		err = errors.Unauthorized
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

func CheckVoteOpen(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Storage.State != StateInProgress || checker.Storage.Poll == nil {
		err = errors.NoVoteOpen
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
	if _, found := checker.Storage.Poll.Voters[checker.Vote.Address]; found {
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

// CheckVotingWindow allows votes from the start level up to and including
// the end level.
func CheckVotingWindow(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if !checker.Storage.Poll.InWindow(checker.Context.Level) {
		err = errors.VotingWindowClosed
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

// CheckVotingEnded requires the level to be strictly after the end level;
// at the end level itself votes are still accepted.
func CheckVotingEnded(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Context.Level <= checker.Storage.Poll.VotingEndLevel {
		err = errors.VotingNotEnded
		return
	}

	return
}

// CheckTally refuses a weight that would overflow the turnout; every
// bucket is bounded by it.
func CheckTally(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, ok := common.AddVotes(checker.Storage.Poll.TotalVotes, checker.Vote.Votes); !ok {
		err = errors.TallyOverflow.Clone().SetData("votes", checker.Vote.Votes)
		return
	}

	return
}
