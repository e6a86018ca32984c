package leader

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/ledger"
)

type Checker struct {
	common.DefaultChecker

	Context   *context.Context
	Storage   *Storage
	Book      *ledger.Book
	VoteID    uint64
	VoteValue governance.VoteValue

	// filled by CheckVotingPower
	Power common.Amount
}

func NewChecker(ctx *context.Context, s *Storage, book *ledger.Book, funcs []common.CheckerFunc) *Checker {
	return &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: funcs},
		Context:        ctx,
		Storage:        s,
		Book:           book,
	}
}

var (
	ProposeCheckerFuncs = []common.CheckerFunc{
		CheckEngineRegistered,
		CheckNoProposal,
		CheckHolder,
	}

	ProposeCallbackCheckerFuncs = []common.CheckerFunc{
		CheckEngineCaller,
		CheckPendingProposal,
	}

	CastCheckerFuncs = []common.CheckerFunc{
		CheckConfirmedProposal,
		CheckVotingStarted,
		CheckNotCast,
		CheckVoteValue,
		CheckVotingPower,
	}

	CloseCheckerFuncs = []common.CheckerFunc{
		CheckConfirmedProposal,
	}

	EndCallbackCheckerFuncs = []common.CheckerFunc{
		CheckEngineCaller,
		CheckConfirmedProposal,
		CheckVotingID,
	}
)

func CheckEngineRegistered(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if len(checker.Storage.Engine) < 1 {
		err = errors.EngineNotRegistered
		return
	}

	return
}

func CheckNoProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Storage.Proposal != nil {
		err = errors.ProposalInProgress
		return
	}

	return
}

// CheckHolder requires the proposer to hold tokens right now.
func CheckHolder(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	var balance common.Amount
	if balance, err = checker.Book.Balance(checker.Context.Sender); err != nil {
		return
	}
	if balance < 1 {
		err = errors.NoVotingPower
		return
	}

	return
}

func CheckEngineCaller(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	engine := checker.Storage.Engine
	if len(engine) < 1 || checker.Context.Sender != engine {
		err = errors.InvalidVotingStrategy
		return
	}

	return
}

func CheckPendingProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if p := checker.Storage.Proposal; p == nil || p.Confirmed {
		err = errors.NoProposal
		return
	}

	return
}

func CheckConfirmedProposal(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if p := checker.Storage.Proposal; p == nil || !p.Confirmed {
		err = errors.NoProposal
		return
	}

	return
}

// CheckVotingStarted keeps casts from reaching the engine before its
// window opens and before the snapshot level is over.
func CheckVotingStarted(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	p := checker.Storage.Proposal
	if level := checker.Context.Level; level < p.StartLevel || level <= p.SnapshotLevel() {
		err = errors.VotingWindowClosed
		return
	}

	return
}

func CheckNotCast(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, found := checker.Storage.Proposal.Casts[checker.Context.Sender]; found {
		err = errors.AlreadyVoted
		return
	}

	return
}

func CheckVoteValue(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if !checker.VoteValue.Valid() {
		err = errors.InvalidVoteValue
		return
	}

	return
}

// CheckVotingPower weighs the sender by its balance at the snapshot level of
// the proposal.
func CheckVotingPower(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	ctx := checker.Context

	var power common.Amount
	power, err = checker.Book.VotingPower(ctx.Sender, checker.Storage.Proposal.SnapshotLevel(), ctx.Level)
	if err != nil {
		return
	}
	if power < 1 {
		err = errors.NoVotingPower
		return
	}
	checker.Power = power

	return
}

func CheckVotingID(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.VoteID != checker.Storage.Proposal.VoteID {
		err = errors.InvalidVoteId
		return
	}

	return
}
