package httpcache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestRedisAdapter needs a redis server; set DAO_TEST_REDIS to its address.
func TestRedisAdapter(t *testing.T) {
	addr := os.Getenv("DAO_TEST_REDIS")
	if len(addr) < 1 {
		t.Skip("DAO_TEST_REDIS is not set")
	}

	a := NewRedisCacheAdapter(map[string]string{"server": addr})
	defer a.Close()
	require.NoError(t, a.Ping())

	resp := &Response{
		Value:      []byte("value 1"),
		StatusCode: 200,
		Header:     map[string][]string{"Content-Type": {"application/json"}},
	}
	a.Set("test1", resp, time.Now().Add(time.Minute))

	cached, ok := a.Get("test1")
	require.True(t, ok)
	require.Equal(t, resp.Value, cached.Value)
	require.Equal(t, resp.StatusCode, cached.StatusCode)
	require.Equal(t, resp.Header, cached.Header)

	a.Remove("test1")
	_, ok = a.Get("test1")
	require.False(t, ok)
}
