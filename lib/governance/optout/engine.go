package optout

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

// Engine runs opt-out polls. Phase 1 only counts objections; when they reach
// the objection threshold the poll is escalated to a majority engine, the
// phase 2 contract, and resolved by its callbacks.
//
// The phase 2 engine must have this engine registered as its poll leader.
type Engine struct {
	admin  string
	params Params
}

func New(admin string, params Params) *Engine {
	return &Engine{
		admin:  admin,
		params: params,
	}
}

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

	ex.RegisterFunc(governance.EntrySetPhase2Contract, e.setPhase2Contract)
	ex.RegisterFunc(governance.EntryStart, e.start)
	ex.RegisterFunc(governance.EntryVote, e.vote)
	ex.RegisterFunc(governance.EntryEnd, e.end)
	ex.RegisterFunc(governance.EntryProposeCallback, e.proposeCallback)
	ex.RegisterFunc(governance.EntryEndCallback, e.endCallback)
}

func (e *Engine) setPhase2Contract(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.AddressParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}
	if len(params.Address) < 1 {
		return errors.InvalidAddress
	}

	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}
	if err = s.CheckAdmin(ctx.Sender); err != nil {
		return err
	}
	if len(s.Phase2Contract) > 0 {
		return errors.AlreadyRegistered
	}
	s.Phase2Contract = params.Address

	return governance.SaveState(ctx.Storage, ctx.Self, s)
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

	startLevel := ctx.Level + s.Params.VoteDelay
	s.Poll = &Poll{
		VoteID:             s.VoteID,
		VotingStartLevel:   startLevel,
		VotingEndLevel:     startLevel + s.Params.VoteLength,
		ObjectionThreshold: common.ApplyPercentage(params.TotalAvailableVoters, s.Params.ObjectionPercentage),
		TotalVoters:        params.TotalAvailableVoters,
		Phase1Voters:       map[string]governance.VoteRecord{},
	}
	s.State = StatePhase1

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
			"objection_threshold", poll.ObjectionThreshold,
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

	switch s.State {
	case StatePhase1:
		return e.phase1Vote(ctx, s, params)
	case StatePhase2:
		return e.phase2Vote(ctx, s, params)
	default:
		return errors.NoVoteOpen
	}
}

func (e *Engine) phase1Vote(ctx *context.Context, s *Storage, params governance.VoteParams) error {
	checker := NewChecker(ctx, s, Phase1VoteCheckerFuncs)
	checker.Vote = params
	checker.VoteID = params.VoteID
	if err := common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	s.Poll.Phase1Objection += params.Votes
	s.Poll.Phase1Voters[params.Address] = governance.VoteRecord{
		VoteValue: params.VoteValue,
		Level:     ctx.Level,
		Votes:     params.Votes,
	}
	if err := governance.SaveState(ctx.Storage, ctx.Self, s); err != nil {
		return err
	}

	self := ctx.Self
	ctx.OnCommit(func() {
		metrics.Governance.AddVote(self)
	})

	return nil
}

// phase2Vote relays the vote to the phase 2 engine, which does the
// validation.
func (e *Engine) phase2Vote(ctx *context.Context, s *Storage, params governance.VoteParams) error {
	checker := NewChecker(ctx, s, Phase2VoteCheckerFuncs)
	checker.Vote = params
	checker.VoteID = params.VoteID
	if err := common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	return ctx.Call(s.Phase2Contract, governance.EntryVote, governance.VoteParams{
		Votes:     params.Votes,
		Address:   params.Address,
		VoteValue: params.VoteValue,
		VoteID:    s.Poll.Phase2VoteID,
	})
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

	switch s.State {
	case StatePhase1:
		return e.phase1End(ctx, s, params)
	case StatePhase2:
		return e.phase2End(ctx, s, params)
	default:
		return errors.NoVoteOpen
	}
}

func (e *Engine) phase1End(ctx *context.Context, s *Storage, params governance.EndParams) error {
	checker := NewChecker(ctx, s, Phase1EndCheckerFuncs)
	checker.VoteID = params.VoteID
	if err := common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	poll := s.Poll
	if poll.Objected() {
		// the leader hears nothing until phase 2 is resolved
		poll.Phase2Needed = true
		s.State = StateStartingPhase2

		err := ctx.Call(s.Phase2Contract, governance.EntryStart, governance.StartParams{
			TotalAvailableVoters: poll.TotalVoters,
		})
		if err != nil {
			return err
		}
		if err = governance.SaveState(ctx.Storage, ctx.Self, s); err != nil {
			return err
		}

		self, voteID, objection := ctx.Self, poll.VoteID, poll.Phase1Objection
		ctx.OnCommit(func() {
			metrics.Governance.AddEscalation(self)
			log.Info("poll escalated to phase 2", "contract", self, "vote_id", voteID, "objection", objection)
		})
		return nil
	}

	if err := governance.ArchiveOutcome(ctx, poll.VoteID, governance.Passed, poll); err != nil {
		return err
	}

	return e.close(ctx, s, governance.Passed)
}

func (e *Engine) phase2End(ctx *context.Context, s *Storage, params governance.EndParams) error {
	checker := NewChecker(ctx, s, Phase2EndCheckerFuncs)
	checker.VoteID = params.VoteID
	if err := common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	s.State = StateEndingPhase2

	err := ctx.Call(s.Phase2Contract, governance.EntryEnd, governance.EndParams{
		VoteID: s.Poll.Phase2VoteID,
	})
	if err != nil {
		return err
	}

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

func (e *Engine) proposeCallback(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.ProposeCallbackParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, ProposeCallbackCheckerFuncs)
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	s.Poll.Phase2VoteID = params.VoteID
	s.Poll.Phase2StartLevel = params.StartLevel
	s.State = StatePhase2

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

func (e *Engine) endCallback(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.EndCallbackParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, EndCallbackCheckerFuncs)
	checker.VotingID = params.VotingID
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	if err = governance.ArchiveOutcome(ctx, s.Poll.VoteID, params.VotingOutcome, s.Poll); err != nil {
		return err
	}

	return e.close(ctx, s, params.VotingOutcome)
}

// close reports outcome to the poll leader and gets the engine ready for
// the next poll.
func (e *Engine) close(ctx *context.Context, s *Storage, outcome governance.PollOutcome) error {
	err := ctx.Call(s.PollLeader, governance.EntryEndCallback, governance.EndCallbackParams{
		VotingID:      s.Poll.VoteID,
		VotingOutcome: outcome,
	})
	if err != nil {
		return err
	}

	s.OutcomeCount++
	s.Poll = nil
	s.VoteID++
	s.State = StateNone

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}
