package api

import (
	"net/http"

	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"

	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/storage"
)

const (
	JSONRPCPattern = "/jsonrpc"

	MaxLimitListOptions uint64 = 10000
)

type DBHasArgs string
type DBHasResult bool

type DBGetArgs string
type DBGetResult storage.IterItem

type GetIteratorOptions struct {
	Reverse bool
	Cursor  []byte
	Limit   uint64
}

type DBGetIteratorArgs struct {
	Prefix  string
	Options GetIteratorOptions
}

type DBGetIteratorResult struct {
	Limit uint64
	Items []storage.IterItem
}

// jsonrpcDBApp reads the raw storage of the host; every call sees one
// snapshot.
type jsonrpcDBApp struct {
	host *contract.Host
}

func (j *jsonrpcDBApp) Has(r *http.Request, args *DBHasArgs, result *DBHasResult) error {
	return j.host.View(func(st *storage.LevelDBBackend) error {
		o, err := st.Has(string(*args))
		if err != nil {
			return err
		}

		*result = DBHasResult(o)
		return nil
	})
}

func (j *jsonrpcDBApp) Get(r *http.Request, args *DBGetArgs, result *DBGetResult) error {
	return j.host.View(func(st *storage.LevelDBBackend) error {
		o, err := st.GetRaw(string(*args))
		if err != nil {
			return err
		}

		*result = DBGetResult{Key: []byte(*args), Value: o}
		return nil
	})
}

func (j *jsonrpcDBApp) GetIterator(r *http.Request, args *DBGetIteratorArgs, result *DBGetIteratorResult) error {
	limit := args.Options.Limit
	if limit < 1 || limit > MaxLimitListOptions {
		limit = MaxLimitListOptions
	}

	options := storage.NewDefaultListOptions(
		args.Options.Reverse,
		args.Options.Cursor,
		limit,
	)

	return j.host.View(func(st *storage.LevelDBBackend) error {
		it, closeFunc := st.GetIterator(args.Prefix, options)
		defer closeFunc()

		collected := []storage.IterItem{}
		for {
			v, hasNext := it()
			if !hasNext {
				break
			}

			collected = append(collected, v)
		}

		result.Items = collected
		result.Limit = limit

		return nil
	})
}

// NewJSONRPCHandler serves the `DB` service, `DB.Has`, `DB.Get` and
// `DB.GetIterator`, over json-rpc.
func NewJSONRPCHandler(host *contract.Host) http.Handler {
	s := rpc.NewServer()
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json;charset=UTF-8")
	s.RegisterService(&jsonrpcDBApp{host: host}, "DB")

	return s
}
