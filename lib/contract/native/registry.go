package native

import (
	"sort"
	"sync"

	"boscoin.io/dao/lib/errors"
)

type Register func(executor *NativeExecutor)

// Registry maps contract addresses to the function which installs their
// entrypoints on a fresh executor.
type Registry struct {
	sync.RWMutex
	contracts map[string]Register
}

func NewRegistry() *Registry {
	return &Registry{contracts: map[string]Register{}}
}

func (r *Registry) AddContract(addr string, register Register) error {
	r.Lock()
	defer r.Unlock()

	if len(addr) < 1 {
		return errors.InvalidAddress
	}
	if _, found := r.contracts[addr]; found {
		return errors.ContractAlreadyExists
	}
	r.contracts[addr] = register

	return nil
}

func (r *Registry) HasContract(addr string) bool {
	r.RLock()
	defer r.RUnlock()

	_, ok := r.contracts[addr]
	return ok
}

func (r *Registry) Addresses() []string {
	r.RLock()
	defer r.RUnlock()

	addrs := make([]string, 0, len(r.contracts))
	for addr := range r.contracts {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	return addrs
}

// Load installs the entrypoints of addr on ex.
func (r *Registry) Load(ex *NativeExecutor, addr string) error {
	r.RLock()
	register, ok := r.contracts[addr]
	r.RUnlock()

	if !ok {
		return errors.ContractNotFound.Clone().SetData("contract", addr)
	}
	register(ex)

	return nil
}
