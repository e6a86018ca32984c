package governance

import (
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/contract/native"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/storage"
)

// Administration holds the fields every engine shares: who administers it,
// free-form metadata and the poll leader, which can be set only once.
type Administration struct {
	Admin      string            `json:"admin"`
	PollLeader string            `json:"poll_leader,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (a *Administration) GetAdministration() *Administration {
	return a
}

func (a *Administration) CheckAdmin(sender string) error {
	if sender != a.Admin {
		return errors.Unauthorized
	}
	return nil
}

type Administered interface {
	GetAdministration() *Administration
}

// Store loads the persisted document of a contract.
type Store interface {
	LoadDocument(st *storage.LevelDBBackend, address string) (Administered, error)
}

// Viewer is implemented by contracts which expose their storage as a read
// view.
type Viewer interface {
	View(st *storage.LevelDBBackend, address string) (interface{}, error)
}

// RegisterAdministration installs set_administrator, set_metadata,
// set_poll_leader and mutez_transfer, all admin only.
func RegisterAdministration(ex *native.NativeExecutor, store Store) {
	ex.RegisterFunc(EntrySetAdministrator, func(ex *native.NativeExecutor, code *payload.ExecCode) error {
		var params AddressParams
		if err := code.DecodeArgs(&params); err != nil {
			return err
		}
		if len(params.Address) < 1 {
			return errors.InvalidAddress
		}

		return administer(ex.Context, store, func(a *Administration) error {
			a.Admin = params.Address
			return nil
		})
	})

	ex.RegisterFunc(EntrySetMetadata, func(ex *native.NativeExecutor, code *payload.ExecCode) error {
		var params MetadataParams
		if err := code.DecodeArgs(&params); err != nil {
			return err
		}

		return administer(ex.Context, store, func(a *Administration) error {
			if a.Metadata == nil {
				a.Metadata = map[string]string{}
			}
			a.Metadata[params.Key] = params.Value
			return nil
		})
	})

	ex.RegisterFunc(EntrySetPollLeader, func(ex *native.NativeExecutor, code *payload.ExecCode) error {
		var params AddressParams
		if err := code.DecodeArgs(&params); err != nil {
			return err
		}
		if len(params.Address) < 1 {
			return errors.InvalidAddress
		}

		return administer(ex.Context, store, func(a *Administration) error {
			if len(a.PollLeader) > 0 {
				return errors.AlreadyRegistered
			}
			a.PollLeader = params.Address
			return nil
		})
	})

	ex.RegisterFunc(EntryMutezTransfer, func(ex *native.NativeExecutor, code *payload.ExecCode) error {
		var params TransferParams
		if err := code.DecodeArgs(&params); err != nil {
			return err
		}

		doc, err := store.LoadDocument(ex.Context.Storage, ex.Context.Self)
		if err != nil {
			return err
		}
		if err = doc.GetAdministration().CheckAdmin(ex.Context.Sender); err != nil {
			return err
		}

		return ex.Context.Transfer(params.Destination, params.Amount)
	})
}

func administer(ctx *context.Context, store Store, f func(*Administration) error) error {
	doc, err := store.LoadDocument(ctx.Storage, ctx.Self)
	if err != nil {
		return err
	}

	a := doc.GetAdministration()
	if err = a.CheckAdmin(ctx.Sender); err != nil {
		return err
	}
	if err = f(a); err != nil {
		return err
	}

	log.Debug("administration updated", "contract", ctx.Self, "sender", ctx.Sender)

	return SaveState(ctx.Storage, ctx.Self, doc)
}
