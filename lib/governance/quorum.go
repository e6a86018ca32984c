package governance

import (
	"math/big"

	"boscoin.io/dao/lib/common"
)

const (
	quorumOldWeight = 80
	quorumNewWeight = 20
)

// SupermajorityOutcome is PASSED when yay holds at least pct of the
// opinionated votes and the total turnout reached quorum. Abstentions only
// count towards turnout.
func SupermajorityOutcome(yay, nay, total, quorum, pct uint64) PollOutcome {
	if total < quorum {
		return Failed
	}

	// (yay+nay)*pct does not fit in 64 bits for large tallies
	needed := new(big.Int).SetUint64(yay)
	needed.Add(needed, new(big.Int).SetUint64(nay))
	needed.Mul(needed, new(big.Int).SetUint64(pct))
	needed.Quo(needed, new(big.Int).SetUint64(common.Scale))

	if new(big.Int).SetUint64(yay).Cmp(needed) < 0 {
		return Failed
	}
	return Passed
}

// NextDynamicQuorum moves the quorum towards the last turnout,
// `(old*80 + total*20) / 100`, then clamps it. The result never exceeds
// the larger of old and total.
func NextDynamicQuorum(old, total uint64, cap QuorumCap) uint64 {
	next := new(big.Int).Mul(new(big.Int).SetUint64(old), big.NewInt(quorumOldWeight))
	next.Add(next, new(big.Int).Mul(new(big.Int).SetUint64(total), big.NewInt(quorumNewWeight)))
	next.Quo(next, new(big.Int).SetUint64(common.Scale))

	return cap.Clamp(next.Uint64())
}
