package contract

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/common/observer"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/contract/native"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/metrics"
	"boscoin.io/dao/lib/storage"
)

const (
	levelKey = "host-level"

	// MaxOperationsPerGroup bounds how many calls one submission may cause,
	// including itself.
	MaxOperationsPerGroup = 1000
)

type DeliveryMode int

const (
	// DeliveryIsolated commits every delivered call on its own; a rejected
	// internal call is dropped and does not undo its emitter.
	DeliveryIsolated DeliveryMode = iota
	// DeliveryAtomic runs a submission and all the calls it causes in one
	// transaction.
	DeliveryAtomic
)

func (m DeliveryMode) String() string {
	switch m {
	case DeliveryIsolated:
		return "isolated"
	case DeliveryAtomic:
		return "atomic"
	default:
		return "unknown"
	}
}

func ParseDeliveryMode(s string) (DeliveryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "isolated":
		return DeliveryIsolated, nil
	case "atomic":
		return DeliveryAtomic, nil
	default:
		return DeliveryIsolated, errors.BadRequestParameter.Clone().SetData("delivery", s)
	}
}

// Contract is a native contract the host can deliver calls to.
type Contract interface {
	Register(ex *native.NativeExecutor)
}

// Originator is implemented by contracts which write their initial storage
// when they are deployed.
type Originator interface {
	Originate(ctx *context.Context) error
}

type pending struct {
	sender string
	code   *payload.ExecCode
	depth  int
}

// Host delivers calls to native contracts one at a time. Calls emitted by a
// contract are queued and delivered in order after the emitting call
// finishes, so a submission and everything it causes run before the next
// submission starts.
type Host struct {
	sync.RWMutex

	storage   *storage.LevelDBBackend
	registry  *native.Registry
	contracts map[string]Contract
	level     uint64
	mode      DeliveryMode
}

func NewHost(st *storage.LevelDBBackend, mode DeliveryMode) (*Host, error) {
	h := &Host{
		storage:   st,
		registry:  native.NewRegistry(),
		contracts: map[string]Contract{},
		mode:      mode,
	}

	if exists, err := st.Has(levelKey); err != nil {
		return nil, err
	} else if exists {
		if err = st.Get(levelKey, &h.level); err != nil {
			return nil, err
		}
	}
	metrics.Host.SetLevel(h.level)

	return h, nil
}

func (h *Host) Mode() DeliveryMode {
	return h.mode
}

func (h *Host) Storage() *storage.LevelDBBackend {
	return h.storage
}

// View runs f against a snapshot of the committed state.
func (h *Host) View(f func(st *storage.LevelDBBackend) error) error {
	h.RLock()
	snapshot, release, err := storage.NewSnapshot(h.storage)
	h.RUnlock()
	if err != nil {
		return err
	}
	defer release()

	return f(snapshot)
}

// Deploy registers c at address. When c is an Originator its initial
// storage is written first; a failing origination leaves nothing behind.
func (h *Host) Deploy(address string, c Contract) error {
	h.Lock()
	defer h.Unlock()

	if len(address) < 1 {
		return errors.InvalidAddress
	}
	if h.registry.HasContract(address) {
		return errors.ContractAlreadyExists
	}

	if o, ok := c.(Originator); ok {
		ts, err := h.storage.OpenTransaction()
		if err != nil {
			return err
		}
		ctx := context.NewContext(uuid.New().String(), address, address, address, h.level, ts)
		if err = o.Originate(ctx); err != nil {
			ts.Discard()
			return err
		}
		if err = ts.Commit(); err != nil {
			return err
		}
		ctx.Committed()
	}

	if err := h.registry.AddContract(address, c.Register); err != nil {
		return err
	}
	h.contracts[address] = c

	log.Debug("contract deployed", "address", address)

	return nil
}

func (h *Host) Contract(address string) (Contract, bool) {
	h.RLock()
	defer h.RUnlock()

	c, ok := h.contracts[address]
	return c, ok
}

func (h *Host) Contracts() []string {
	return h.registry.Addresses()
}

func (h *Host) Level() uint64 {
	h.RLock()
	defer h.RUnlock()

	return h.level
}

func (h *Host) AdvanceLevel(n uint64) (uint64, error) {
	h.Lock()
	defer h.Unlock()

	if err := h.setLevel(h.level + n); err != nil {
		return h.level, err
	}
	return h.level, nil
}

// SetLevel moves the chain to level; levels never go backwards.
func (h *Host) SetLevel(level uint64) error {
	h.Lock()
	defer h.Unlock()

	if level < h.level {
		return errors.BadRequestParameter.Clone().SetData("level", level)
	}
	return h.setLevel(level)
}

func (h *Host) setLevel(level uint64) error {
	if err := h.storage.Put(levelKey, level); err != nil {
		return err
	}
	h.level = level
	metrics.Host.SetLevel(level)

	return nil
}

func (h *Host) Fund(address string, amount common.Amount) error {
	h.Lock()
	defer h.Unlock()

	return context.Deposit(h.storage, address, amount)
}

func (h *Host) Balance(address string) (common.Amount, error) {
	h.RLock()
	defer h.RUnlock()

	return context.GetBalance(h.storage, address)
}

// Submit delivers code from sender and then every internal call it causes.
// The returned error is the rejection of the submitted call itself; in
// atomic mode it is also any rejection further down the group.
func (h *Host) Submit(sender string, code *payload.ExecCode) (*Receipt, error) {
	h.Lock()
	defer h.Unlock()

	receipt := &Receipt{
		OperationID: uuid.New().String(),
		Level:       h.level,
	}

	queue := []pending{{sender: sender, code: code}}

	var err error
	if h.mode == DeliveryAtomic {
		err = h.deliverAtomic(receipt, sender, queue)
	} else {
		err = h.deliverIsolated(receipt, sender, queue)
	}

	var hashErr error
	if receipt.Hash, hashErr = receipt.makeHash(); hashErr != nil {
		log.Warn("failed to hash receipt", "operation", receipt.OperationID, "error", hashErr)
	}

	return receipt, err
}

func (h *Host) execute(ts *storage.LevelDBBackend, receipt *Receipt, source string, p pending) (*context.Context, error) {
	if p.code == nil {
		return nil, errors.InvalidPayload
	}

	ctx := context.NewContext(receipt.OperationID, source, p.sender, p.code.ContractAddress, h.level, ts)
	ex := native.NewNativeExecutor(ctx)
	if err := h.registry.Load(ex, p.code.ContractAddress); err != nil {
		return nil, err
	}

	return ctx, ex.Execute(p.code)
}

func (h *Host) deliverIsolated(receipt *Receipt, source string, queue []pending) error {
	for delivered := 0; len(queue) > 0; delivered++ {
		p := queue[0]
		queue = queue[1:]

		if delivered >= MaxOperationsPerGroup {
			h.drop(receipt, p, errors.OperationLimitExceeded)
			continue
		}

		ts, err := h.storage.OpenTransaction()
		if err != nil {
			return err
		}

		ctx, err := h.execute(ts, receipt, source, p)
		if err != nil {
			ts.Discard()
			if p.depth == 0 {
				h.fail(receipt, p, err)
				return err
			}
			h.drop(receipt, p, err)
			continue
		}

		if err = ts.Commit(); err != nil {
			return err
		}
		h.applied(receipt, p, ctx)

		for _, code := range ctx.Operations() {
			queue = append(queue, pending{sender: ctx.Self, code: code, depth: p.depth + 1})
		}
	}

	return nil
}

func (h *Host) deliverAtomic(receipt *Receipt, source string, queue []pending) error {
	ts, err := h.storage.OpenTransaction()
	if err != nil {
		return err
	}

	var done []pending
	var contexts []*context.Context
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if len(done) >= MaxOperationsPerGroup {
			err = errors.OperationLimitExceeded
		} else {
			var ctx *context.Context
			if ctx, err = h.execute(ts, receipt, source, p); err == nil {
				done = append(done, p)
				contexts = append(contexts, ctx)
				receipt.add(result(p, CallApplied, nil))
				for _, code := range ctx.Operations() {
					queue = append(queue, pending{sender: ctx.Self, code: code, depth: p.depth + 1})
				}
				continue
			}
		}

		ts.Discard()
		receipt.backtrack()
		h.fail(receipt, p, err)
		for _, d := range done {
			metrics.Host.AddCall(d.code.Method, string(CallBacktracked))
		}
		return err
	}

	if err = ts.Commit(); err != nil {
		return err
	}

	for i, ctx := range contexts {
		h.committed(receipt, done[i], ctx)
	}

	return nil
}

func result(p pending, status CallStatus, err error) CallResult {
	r := CallResult{
		Sender: p.sender,
		Depth:  p.depth,
		Status: status,
		Error:  errors.FromError(err),
	}
	if p.code != nil {
		r.Contract = p.code.ContractAddress
		r.Method = p.code.Method
	}
	return r
}

func (h *Host) applied(receipt *Receipt, p pending, ctx *context.Context) {
	receipt.add(result(p, CallApplied, nil))
	h.committed(receipt, p, ctx)
}

func (h *Host) committed(receipt *Receipt, p pending, ctx *context.Context) {
	ctx.Committed()

	metrics.Host.AddCall(p.code.Method, metrics.CallApplied)
	log.Debug(
		"call applied",
		"operation", receipt.OperationID,
		"sender", p.sender,
		"contract", p.code.ContractAddress,
		"method", p.code.Method,
		"depth", p.depth,
	)
	observer.ContractObserver.Trigger(observer.EventCall, callEvent(receipt, p, nil))
}

func (h *Host) fail(receipt *Receipt, p pending, err error) {
	r := result(p, CallFailed, err)
	receipt.add(r)

	metrics.Host.AddCall(r.Method, metrics.CallFailed)
	log.Debug(
		"call rejected",
		"operation", receipt.OperationID,
		"sender", r.Sender,
		"contract", r.Contract,
		"method", r.Method,
		"error", err,
	)
}

func (h *Host) drop(receipt *Receipt, p pending, err error) {
	r := result(p, CallDropped, err)
	receipt.add(r)

	metrics.Host.AddCall(r.Method, metrics.CallDropped)
	metrics.Host.AddDropped(r.Method)
	log.Warn(
		"internal call dropped",
		"operation", receipt.OperationID,
		"sender", r.Sender,
		"contract", r.Contract,
		"method", r.Method,
		"error", err,
	)
	observer.ContractObserver.Trigger(observer.EventDrop, callEvent(receipt, p, err))
}

func callEvent(receipt *Receipt, p pending, err error) observer.CallEvent {
	e := observer.CallEvent{
		OperationID: receipt.OperationID,
		Sender:      p.sender,
		Level:       receipt.Level,
		Error:       err,
	}
	if p.code != nil {
		e.Contract = p.code.ContractAddress
		e.Method = p.code.Method
	}
	return e
}
