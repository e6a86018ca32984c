package common

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetENVValue(t *testing.T) {
	key := "DAO_TEST_GET_ENV_VALUE"
	os.Unsetenv(key)
	require.Equal(t, "default", GetENVValue(key, "default"))

	os.Setenv(key, "")
	defer os.Unsetenv(key)
	require.Equal(t, "", GetENVValue(key, "default"))
}

func TestApplyPercentage(t *testing.T) {
	require.Equal(t, uint64(10), ApplyPercentage(100, 10))
	require.Equal(t, uint64(203), ApplyPercentage(239, 85))
	require.Equal(t, uint64(71), ApplyPercentage(84, 85))
	require.Equal(t, uint64(0), ApplyPercentage(0, 85))
	require.Equal(t, uint64(15679732462653118872), ApplyPercentage(math.MaxUint64, 85))
	require.Equal(t, uint64(math.MaxUint64), ApplyPercentage(math.MaxUint64, Scale))
}

func TestAddVotes(t *testing.T) {
	n, ok := AddVotes(40, 2)
	require.True(t, ok)
	require.Equal(t, uint64(42), n)

	n, ok = AddVotes(math.MaxUint64-2, 2)
	require.True(t, ok)
	require.Equal(t, uint64(math.MaxUint64), n)

	_, ok = AddVotes(math.MaxUint64, 2)
	require.False(t, ok)
}

func TestJSONMarshalWithoutEscapeHTML(t *testing.T) {
	b, err := JSONMarshalWithoutEscapeHTML(map[string]string{"link": "/a?b=1&c=<2>"})
	require.NoError(t, err)
	require.Equal(t, `{"link":"/a?b=1&c=<2>"}`, string(b))
}
