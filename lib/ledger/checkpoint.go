package ledger

import (
	"sort"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

// Checkpoint is the balance of a holder from Level on.
type Checkpoint struct {
	Level   uint64        `json:"level"`
	Balance common.Amount `json:"balance"`
}

// Checkpoints is ordered by Level, without duplicated levels.
type Checkpoints []Checkpoint

func (c Checkpoints) Latest() (Checkpoint, bool) {
	if len(c) < 1 {
		return Checkpoint{}, false
	}
	return c[len(c)-1], true
}

// At returns the balance of the most recent checkpoint at or before level.
func (c Checkpoints) At(level uint64) common.Amount {
	i := sort.Search(len(c), func(i int) bool {
		return c[i].Level > level
	})
	if i < 1 {
		return 0
	}
	return c[i-1].Balance
}

// Append writes balance at level. Writing at the level of the latest
// checkpoint overwrites it; writing behind it is an inconsistency.
func (c Checkpoints) Append(level uint64, balance common.Amount) (Checkpoints, error) {
	latest, found := c.Latest()
	switch {
	case !found || latest.Level < level:
		return append(c, Checkpoint{Level: level, Balance: balance}), nil
	case latest.Level == level:
		c[len(c)-1].Balance = balance
		return c, nil
	default:
		return c, errors.BalanceInconsistency.Clone().
			SetData("latest", latest.Level).
			SetData("level", level)
	}
}
