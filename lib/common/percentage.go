package common

import "math"

// Scale is the fixed-point base of every percentage; 85 means 85%.
const Scale uint64 = 100

// ApplyPercentage returns `total * pct / Scale`, truncated. pct is at most
// Scale, so the result always fits where `total * pct` would not.
func ApplyPercentage(total, pct uint64) uint64 {
	return total/Scale*pct + total%Scale*pct/Scale
}

// AddVotes returns `a + b`, or false when the sum does not fit in 64 bits.
func AddVotes(a, b uint64) (uint64, bool) {
	if b > math.MaxUint64-a {
		return 0, false
	}
	return a + b, true
}
