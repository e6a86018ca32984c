package majority

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/contract/native"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/metrics"
	"boscoin.io/dao/lib/storage"
)

// Engine runs single phase supermajority polls for its poll leader. The
// engine value itself is stateless; everything lives in the storage of the
// address it is deployed at.
type Engine struct {
	admin  string
	params Params
	quorum uint64
}

// New returns an engine which, once deployed, is administered by admin and
// starts with quorum as its dynamic quorum.
func New(admin string, params Params, quorum uint64) *Engine {
	return &Engine{
		admin:  admin,
		params: params,
		quorum: quorum,
	}
}

// Originate writes the initial storage. It does nothing when the address
// already has storage, so a restarted host keeps the engine's state.
func (e *Engine) Originate(ctx *context.Context) error {
	if exists, err := governance.HasState(ctx.Storage, ctx.Self); err != nil || exists {
		return err
	}
	if len(e.admin) < 1 {
		return errors.InvalidAddress
	}
	if err := e.params.Validate(); err != nil {
		return err
	}

	return governance.CreateState(ctx.Storage, ctx.Self, Storage{
		Administration: governance.Administration{Admin: e.admin},
		Params:         e.params,
		State:          StateNone,
		DynamicQuorum:  e.quorum,
	})
}

func (e *Engine) LoadDocument(st *storage.LevelDBBackend, address string) (governance.Administered, error) {
	return Load(st, address)
}

func (e *Engine) View(st *storage.LevelDBBackend, address string) (interface{}, error) {
	return Load(st, address)
}

func (e *Engine) Register(ex *native.NativeExecutor) {
	governance.RegisterAdministration(ex, e)

	ex.RegisterFunc(governance.EntryStart, e.start)
	ex.RegisterFunc(governance.EntryVote, e.vote)
	ex.RegisterFunc(governance.EntryEnd, e.end)
}

func (e *Engine) start(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.StartParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, StartCheckerFuncs)
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	quorum := s.DynamicQuorum
	if s.Params.FixedQuorum {
		quorum = common.ApplyPercentage(params.TotalAvailableVoters, s.Params.FixedQuorumPercentage)
	}

	startLevel := ctx.Level + s.Params.VoteDelay
	s.Poll = &Poll{
		VoteID:           s.VoteID,
		VotingStartLevel: startLevel,
		VotingEndLevel:   startLevel + s.Params.VoteLength,
		Quorum:           quorum,
		Voters:           map[string]governance.VoteRecord{},
	}
	s.State = StateInProgress

	err = ctx.Call(s.PollLeader, governance.EntryProposeCallback, governance.ProposeCallbackParams{
		VoteID:     s.VoteID,
		StartLevel: startLevel,
	})
	if err != nil {
		return err
	}
	if err = governance.SaveState(ctx.Storage, ctx.Self, s); err != nil {
		return err
	}

	self, poll := ctx.Self, *s.Poll
	ctx.OnCommit(func() {
		metrics.Governance.AddPollStarted(self)
		log.Debug(
			"poll started",
			"contract", self,
			"vote_id", poll.VoteID,
			"start", poll.VotingStartLevel,
			"end", poll.VotingEndLevel,
			"quorum", poll.Quorum,
		)
	})

	return nil
}

func (e *Engine) vote(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.VoteParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, VoteCheckerFuncs)
	checker.Vote = params
	checker.VoteID = params.VoteID
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	s.Poll.add(params.Address, governance.VoteRecord{
		VoteValue: params.VoteValue,
		Level:     ctx.Level,
		Votes:     params.Votes,
	})
	if err = governance.SaveState(ctx.Storage, ctx.Self, s); err != nil {
		return err
	}

	self := ctx.Self
	ctx.OnCommit(func() {
		metrics.Governance.AddVote(self)
	})

	return nil
}

func (e *Engine) end(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.EndParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, EndCheckerFuncs)
	checker.VoteID = params.VoteID
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	poll := s.Poll
	outcome := governance.SupermajorityOutcome(
		poll.VoteYay,
		poll.VoteNay,
		poll.TotalVotes,
		poll.Quorum,
		s.Params.SupermajorityPercentage,
	)

	if err = governance.ArchiveOutcome(ctx, poll.VoteID, outcome, poll); err != nil {
		return err
	}
	s.OutcomeCount++

	err = ctx.Call(s.PollLeader, governance.EntryEndCallback, governance.EndCallbackParams{
		VotingID:      poll.VoteID,
		VotingOutcome: outcome,
	})
	if err != nil {
		return err
	}

	if !s.Params.FixedQuorum {
		s.DynamicQuorum = governance.NextDynamicQuorum(s.DynamicQuorum, poll.TotalVotes, s.Params.QuorumCap)
	}

	s.Poll = nil
	s.VoteID++
	s.State = StateNone

	if err = governance.SaveState(ctx.Storage, ctx.Self, s); err != nil {
		return err
	}

	self, quorum, fixed := ctx.Self, s.DynamicQuorum, s.Params.FixedQuorum
	ctx.OnCommit(func() {
		if !fixed {
			metrics.Governance.SetDynamicQuorum(self, quorum)
		}
	})

	return nil
}
