package context

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/storage"
)

// Context is what an entrypoint sees of the world while it runs. Storage is
// the transaction the host opened for this call; nothing written there is
// visible outside until the host commits it.
type Context struct {
	OperationID string
	Source      string // address which submitted the operation group
	Sender      string // immediate caller
	Self        string
	Level       uint64
	Storage     *storage.LevelDBBackend

	operations []*payload.ExecCode
	hooks      []func()
}

func NewContext(operationID, source, sender, self string, level uint64, st *storage.LevelDBBackend) *Context {
	return &Context{
		OperationID: operationID,
		Source:      source,
		Sender:      sender,
		Self:        self,
		Level:       level,
		Storage:     st,
	}
}

// Call queues an outbound call. It is delivered by the host after the
// current call has finished and only if the current call succeeded.
func (c *Context) Call(target, method string, args interface{}) error {
	code, err := payload.NewExecCode(target, method, args)
	if err != nil {
		return err
	}
	c.operations = append(c.operations, code)
	return nil
}

func (c *Context) Operations() []*payload.ExecCode {
	return c.operations
}

// Transfer moves amount from the executing contract to dest.
func (c *Context) Transfer(dest string, amount common.Amount) error {
	return Transfer(c.Storage, c.Self, dest, amount)
}

func (c *Context) Balance() (common.Amount, error) {
	return GetBalance(c.Storage, c.Self)
}

// OnCommit registers f to run after the call's state has been committed.
func (c *Context) OnCommit(f func()) {
	c.hooks = append(c.hooks, f)
}

func (c *Context) Committed() {
	for _, f := range c.hooks {
		f()
	}
}
