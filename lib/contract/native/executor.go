package native

import (
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
)

type ExecFunc func(ex *NativeExecutor, code *payload.ExecCode) error

type NativeExecutor struct {
	Context *context.Context

	execFuncs map[string]ExecFunc
}

func NewNativeExecutor(ctx *context.Context) *NativeExecutor {
	return &NativeExecutor{
		Context:   ctx,
		execFuncs: map[string]ExecFunc{},
	}
}

func (ex *NativeExecutor) Execute(c *payload.ExecCode) error {
	f, ok := ex.execFuncs[c.Method]
	if !ok {
		return errors.EntrypointNotFound.Clone().
			SetData("contract", c.ContractAddress).
			SetData("method", c.Method)
	}

	return f(ex, c)
}

func (ex *NativeExecutor) RegisterFunc(name string, f ExecFunc) {
	ex.execFuncs[name] = f
}

func (ex *NativeExecutor) HasFunc(name string) bool {
	_, ok := ex.execFuncs[name]
	return ok
}
