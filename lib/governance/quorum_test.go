package governance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextDynamicQuorum(t *testing.T) {
	cap := QuorumCap{Lower: 1, Upper: 10000}
	require.Equal(t, uint64(2480), NextDynamicQuorum(2000, 4400, cap))

	// clamped on both sides
	require.Equal(t, uint64(1000), NextDynamicQuorum(1000, 0, QuorumCap{Lower: 1000, Upper: 5000}))
	require.Equal(t, uint64(5000), NextDynamicQuorum(5000, 100000, QuorumCap{Lower: 1000, Upper: 5000}))

	for old := uint64(0); old <= 3000; old += 250 {
		for total := uint64(0); total <= 20000; total += 999 {
			q := NextDynamicQuorum(old, total, QuorumCap{Lower: 500, Upper: 2500})
			require.True(t, q >= 500 && q <= 2500, "old=%d total=%d quorum=%d", old, total, q)
		}
	}
}

func TestSupermajorityOutcome(t *testing.T) {
	// 239*85/100 = 203
	require.Equal(t, Passed, SupermajorityOutcome(239, 1, 250, 250, 85))
	// (84+16)*85/100 = 85, one yay short
	require.Equal(t, Failed, SupermajorityOutcome(84, 16, 100, 25, 85))
	require.Equal(t, Passed, SupermajorityOutcome(85, 15, 100, 25, 85))
	// turnout above the opinionated votes does not raise the bar
	require.Equal(t, Passed, SupermajorityOutcome(84, 14, 120, 25, 85))

	require.Equal(t, Failed, SupermajorityOutcome(239, 1, 249, 250, 85))
	require.Equal(t, Failed, SupermajorityOutcome(80, 20, 100, 25, 85))

	// abstentions count towards quorum only
	require.Equal(t, Passed, SupermajorityOutcome(0, 0, 30, 25, 85))
	require.Equal(t, Failed, SupermajorityOutcome(0, 0, 20, 25, 85))
}

func TestQuorumCapClamp(t *testing.T) {
	c := QuorumCap{Lower: 10, Upper: 20}
	require.Equal(t, uint64(10), c.Clamp(0))
	require.Equal(t, uint64(15), c.Clamp(15))
	require.Equal(t, uint64(20), c.Clamp(21))
}

func TestQuorumLargeTallies(t *testing.T) {
	max := uint64(math.MaxUint64)

	require.Equal(t, Passed, SupermajorityOutcome(max, 2, max, 0, 85))
	require.Equal(t, Failed, SupermajorityOutcome(2, max, max, 0, 85))
	require.Equal(t, Passed, SupermajorityOutcome(max/2, max/2, max, max, 50))

	all := QuorumCap{Lower: 0, Upper: max}
	require.Equal(t, max, NextDynamicQuorum(max, max, all))
	require.Equal(t, uint64(14757395258967641292), NextDynamicQuorum(max, 0, all))
	require.Equal(t, uint64(10000), NextDynamicQuorum(2000, max, QuorumCap{Lower: 1, Upper: 10000}))
}
