//
// Package ledger keeps the voting power of token holders as per holder
// checkpoint logs, so the power of a holder can be looked up at any past
// level.
//
package ledger

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/storage"
)

const (
	checkpointPrefix  = "vp-cp-"
	totalSupplyPrefix = "vp-ts-"

	DefaultCacheSize = 1024
)

// Ledger shares a lookup cache between the books it opens. Only lookups at
// levels strictly below the current level are cached, since those can not
// change anymore; concurrent misses of the same lookup read it once.
type Ledger struct {
	cache *lru.Cache
	group *singleflight.Group
}

func New(cacheSize int) (*Ledger, error) {
	if cacheSize < 1 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}

	return &Ledger{cache: cache, group: &singleflight.Group{}}, nil
}

// Open returns the book kept by owner in st.
func (l *Ledger) Open(st *storage.LevelDBBackend, owner string) *Book {
	return &Book{
		st:    st,
		owner: owner,
		cache: l.cache,
		group: l.group,
	}
}

type Book struct {
	st    *storage.LevelDBBackend
	owner string
	cache *lru.Cache
	group *singleflight.Group
}

func (b *Book) holderKey(holder string) string {
	return fmt.Sprintf("%s%s-%s", checkpointPrefix, b.owner, holder)
}

func (b *Book) supplyKey() string {
	return fmt.Sprintf("%s%s", totalSupplyPrefix, b.owner)
}

func (b *Book) load(key string) (cps Checkpoints, err error) {
	var exists bool
	if exists, err = b.st.Has(key); err != nil || !exists {
		return
	}

	err = b.st.Get(key, &cps)
	return
}

func (b *Book) write(key string, level uint64, f func(common.Amount) (common.Amount, error)) error {
	cps, err := b.load(key)
	if err != nil {
		return err
	}

	var latest common.Amount
	if cp, found := cps.Latest(); found {
		latest = cp.Balance
	}

	balance, err := f(latest)
	if err != nil {
		return err
	}
	if cps, err = cps.Append(level, balance); err != nil {
		return err
	}

	return b.st.Put(key, cps)
}

func (b *Book) Checkpoints(holder string) (Checkpoints, error) {
	return b.load(b.holderKey(holder))
}

// Mint credits amount to holder at level and grows the total supply.
func (b *Book) Mint(holder string, amount common.Amount, level uint64) error {
	if len(holder) < 1 {
		return errors.InvalidAddress
	}

	err := b.write(b.holderKey(holder), level, func(balance common.Amount) (common.Amount, error) {
		return balance.Add(amount)
	})
	if err != nil {
		return err
	}

	err = b.write(b.supplyKey(), level, func(supply common.Amount) (common.Amount, error) {
		return supply.Add(amount)
	})
	if err != nil {
		return err
	}

	log.Debug("minted", "owner", b.owner, "holder", holder, "amount", amount, "level", level)

	return nil
}

// Transfer moves amount from one holder to another at level. Both holders
// get a checkpoint.
func (b *Book) Transfer(from, to string, amount common.Amount, level uint64) error {
	if len(to) < 1 {
		return errors.InvalidAddress
	}

	err := b.write(b.holderKey(from), level, func(balance common.Amount) (common.Amount, error) {
		return balance.Sub(amount)
	})
	if err != nil {
		return err
	}

	err = b.write(b.holderKey(to), level, func(balance common.Amount) (common.Amount, error) {
		return balance.Add(amount)
	})
	if err != nil {
		return err
	}

	log.Debug("transferred", "owner", b.owner, "from", from, "to", to, "amount", amount, "level", level)

	return nil
}

// Balance is the latest balance of holder.
func (b *Book) Balance(holder string) (common.Amount, error) {
	cps, err := b.Checkpoints(holder)
	if err != nil {
		return 0, err
	}

	cp, _ := cps.Latest()
	return cp.Balance, nil
}

// VotingPower returns the balance holder had at level at, or 0 when it held
// nothing then. now is the current level.
func (b *Book) VotingPower(holder string, at, now uint64) (common.Amount, error) {
	return b.lookup(b.holderKey(holder), at, now)
}

func (b *Book) TotalSupply(at, now uint64) (common.Amount, error) {
	return b.lookup(b.supplyKey(), at, now)
}

func (b *Book) lookup(key string, at, now uint64) (common.Amount, error) {
	if at >= now {
		cps, err := b.load(key)
		if err != nil {
			return 0, err
		}
		return cps.At(at), nil
	}

	cacheKey := fmt.Sprintf("%s@%d", key, at)
	if v, found := b.cache.Get(cacheKey); found {
		return v.(common.Amount), nil
	}

	v, err, _ := b.group.Do(cacheKey, func() (interface{}, error) {
		cps, err := b.load(key)
		if err != nil {
			return nil, err
		}

		amount := cps.At(at)
		b.cache.Add(cacheKey, amount)
		return amount, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(common.Amount), nil
}

// Holders lists every address which ever held tokens of the book.
func (b *Book) Holders() (holders []string, err error) {
	prefix := fmt.Sprintf("%s%s-", checkpointPrefix, b.owner)
	iterFunc, closeFunc := b.st.GetIterator(prefix, storage.NewDefaultListOptions(false, nil, 0))
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}
		holders = append(holders, strings.TrimPrefix(string(item.Key), prefix))
	}

	return
}
