package leader

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/contract/native"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/ledger"
	"boscoin.io/dao/lib/storage"
)

const (
	EntryMint      = "mint"
	EntryTransfer  = "transfer"
	EntrySetEngine = "set_engine"
	EntryPropose   = "propose"
	EntryCast      = "cast"
	EntryClose     = "close"
	EntryCancel    = "cancel"
)

// Contract is the governance token: it keeps the token ledger, lets holders
// propose and drives the voting engine on their behalf, weighing every
// holder by the tokens it held when the poll started.
type Contract struct {
	admin  string
	ledger *ledger.Ledger
}

func New(admin string, l *ledger.Ledger) *Contract {
	return &Contract{
		admin:  admin,
		ledger: l,
	}
}

func (c *Contract) Originate(ctx *context.Context) error {
	if exists, err := governance.HasState(ctx.Storage, ctx.Self); err != nil || exists {
		return err
	}
	if len(c.admin) < 1 {
		return errors.InvalidAddress
	}

	return governance.CreateState(ctx.Storage, ctx.Self, Storage{Admin: c.admin})
}

func (c *Contract) View(st *storage.LevelDBBackend, address string) (interface{}, error) {
	s, err := Load(st, address)
	if err != nil {
		return nil, err
	}

	book := c.ledger.Open(st, address)
	holders, err := book.Holders()
	if err != nil {
		return nil, err
	}

	view := View{
		Storage: s,
		Holders: map[string]common.Amount{},
	}
	for _, holder := range holders {
		if view.Holders[holder], err = book.Balance(holder); err != nil {
			return nil, err
		}
	}
	if view.TotalSupply, err = book.TotalSupply(^uint64(0), ^uint64(0)); err != nil {
		return nil, err
	}

	return view, nil
}

func (c *Contract) Register(ex *native.NativeExecutor) {
	ex.RegisterFunc(EntryMint, c.mint)
	ex.RegisterFunc(EntryTransfer, c.transfer)
	ex.RegisterFunc(EntrySetEngine, c.setEngine)
	ex.RegisterFunc(EntryPropose, c.propose)
	ex.RegisterFunc(EntryCancel, c.cancel)
	ex.RegisterFunc(governance.EntryProposeCallback, c.proposeCallback)
	ex.RegisterFunc(EntryCast, c.cast)
	ex.RegisterFunc(EntryClose, c.close)
	ex.RegisterFunc(governance.EntryEndCallback, c.endCallback)
}

func (c *Contract) load(ctx *context.Context) (*Storage, *ledger.Book, error) {
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return nil, nil, err
	}
	return s, c.ledger.Open(ctx.Storage, ctx.Self), nil
}

func (c *Contract) mint(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params TokenParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, book, err := c.load(ctx)
	if err != nil {
		return err
	}
	if err = s.CheckAdmin(ctx.Sender); err != nil {
		return err
	}

	return book.Mint(params.To, params.Amount, ctx.Level)
}

func (c *Contract) transfer(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params TokenParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	_, book, err := c.load(ctx)
	if err != nil {
		return err
	}

	return book.Transfer(ctx.Sender, params.To, params.Amount, ctx.Level)
}

func (c *Contract) setEngine(ex *native.NativeExecutor, code *payload.ExecCode) error {
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
	if len(s.Engine) > 0 {
		return errors.AlreadyRegistered
	}
	s.Engine = params.Address

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

func (c *Contract) propose(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params ProposeParams
	if len(code.Args) > 0 {
		if err := code.DecodeArgs(&params); err != nil {
			return err
		}
	}

	ctx := ex.Context
	s, book, err := c.load(ctx)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, book, ProposeCheckerFuncs)
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	supply, err := book.TotalSupply(ctx.Level, ctx.Level)
	if err != nil {
		return err
	}

	s.Proposal = &Proposal{
		Proposer:      ctx.Sender,
		Description:   params.Description,
		ProposedLevel: ctx.Level,
		Casts:         map[string]uint64{},
	}
	err = ctx.Call(s.Engine, governance.EntryStart, governance.StartParams{
		TotalAvailableVoters: uint64(supply),
	})
	if err != nil {
		return err
	}

	log.Debug("proposed", "contract", ctx.Self, "proposer", ctx.Sender, "supply", supply)

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

// cancel drops the live proposal. It is the way out when the engine never
// answered a proposal or a close.
func (c *Contract) cancel(ex *native.NativeExecutor, code *payload.ExecCode) error {
	ctx := ex.Context
	s, err := Load(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}
	if err = s.CheckAdmin(ctx.Sender); err != nil {
		return err
	}
	if s.Proposal == nil {
		return errors.NoProposal
	}
	s.Proposal = nil

	log.Warn("proposal cancelled", "contract", ctx.Self)

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

func (c *Contract) proposeCallback(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.ProposeCallbackParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, book, err := c.load(ctx)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, book, ProposeCallbackCheckerFuncs)
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	s.Proposal.Confirmed = true
	s.Proposal.VoteID = params.VoteID
	s.Proposal.StartLevel = params.StartLevel

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

func (c *Contract) cast(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params CastParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, book, err := c.load(ctx)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, book, CastCheckerFuncs)
	checker.VoteValue = params.VoteValue
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	votes := uint64(checker.Power)
	err = ctx.Call(s.Engine, governance.EntryVote, governance.VoteParams{
		Votes:     votes,
		Address:   ctx.Sender,
		VoteValue: params.VoteValue,
		VoteID:    s.Proposal.VoteID,
	})
	if err != nil {
		return err
	}
	s.Proposal.Casts[ctx.Sender] = votes

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}

func (c *Contract) close(ex *native.NativeExecutor, code *payload.ExecCode) error {
	ctx := ex.Context
	s, book, err := c.load(ctx)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, book, CloseCheckerFuncs)
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	return ctx.Call(s.Engine, governance.EntryEnd, governance.EndParams{VoteID: s.Proposal.VoteID})
}

func (c *Contract) endCallback(ex *native.NativeExecutor, code *payload.ExecCode) error {
	var params governance.EndCallbackParams
	if err := code.DecodeArgs(&params); err != nil {
		return err
	}

	ctx := ex.Context
	s, book, err := c.load(ctx)
	if err != nil {
		return err
	}

	checker := NewChecker(ctx, s, book, EndCallbackCheckerFuncs)
	checker.VoteID = params.VotingID
	if err = common.RunChecker(checker, common.DefaultDeferFunc); err != nil {
		return err
	}

	outcome, err := governance.NewOutcome(params.VotingOutcome, s.Proposal)
	if err != nil {
		return err
	}
	if err = governance.RecordOutcome(ctx.Storage, ctx.Self, params.VotingID, outcome); err != nil {
		return err
	}
	s.ResultCount++
	s.Proposal = nil

	self := ctx.Self
	ctx.OnCommit(func() {
		log.Info("proposal closed", "contract", self, "vote_id", params.VotingID, "outcome", params.VotingOutcome)
	})

	return governance.SaveState(ctx.Storage, ctx.Self, s)
}
