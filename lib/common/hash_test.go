package common

import (
	"testing"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"
)

type hashable struct {
	Name   string
	Amount Amount
	Levels []uint64
}

func TestMakeObjectHash(t *testing.T) {
	a := hashable{Name: "alice", Amount: 10, Levels: []uint64{1, 2}}

	h, err := MakeObjectHash(a)
	require.NoError(t, err)
	require.Equal(t, 32, len(h))

	s, err := MakeObjectHashString(a)
	require.NoError(t, err)
	require.Equal(t, h, base58.Decode(s))

	// same content, same hash
	again, err := MakeObjectHashString(hashable{Name: "alice", Amount: 10, Levels: []uint64{1, 2}})
	require.NoError(t, err)
	require.Equal(t, s, again)

	a.Levels = []uint64{2, 1}
	other, err := MakeObjectHashString(a)
	require.NoError(t, err)
	require.NotEqual(t, s, other)
}

func TestMakeObjectHashSignedInt(t *testing.T) {
	// rlp has no signed integers
	_, err := MakeObjectHash(struct{ N int64 }{N: 1})
	require.Error(t, err)
}
