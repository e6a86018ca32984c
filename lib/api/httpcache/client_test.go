package httpcache

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	a, err := NewMemCacheAdapter(10)
	require.NoError(t, err)
	a.Set("http://foo?bar=1", &Response{
		Value:      []byte("value 1"),
		StatusCode: 200,
	}, time.Time{})

	c, err := NewClient(WithAdapter(a))
	require.NoError(t, err)

	cnt := 0
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("missing") != "" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(fmt.Sprintf("new value:%v", cnt)))
	}))

	tests := []struct {
		name   string
		url    string
		method string
		body   string
		code   int
	}{
		{"return cached resp", "http://foo?bar=1", "GET", "value 1", 200},
		{"return nocached resp", "http://foo?bar=2", "GET", "new value:2", 200},
		{"return resp cached by previous request", "http://foo?bar=2", "GET", "new value:2", 200},
		{"post is not cached", "http://foo?bar=2", "POST", "new value:4", 200},
		{"not found", "http://foo?missing=1", "GET", "404 page not found\n", 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cnt++

			r, err := http.NewRequest(tt.method, tt.url, nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			require.Equal(t, tt.code, w.Code)
			require.Equal(t, tt.body, w.Body.String())
		})
	}

	// not found is not cached
	_, found := a.Get("http://foo?missing=1")
	require.False(t, found)
	require.Equal(t, 2, a.Len())
}

func TestMiddlewareFilterAndExpiration(t *testing.T) {
	a, err := NewMemCacheAdapter(10)
	require.NoError(t, err)

	c, err := NewClient(
		WithAdapter(a),
		WithExpire(time.Minute),
		WithFilter(func(r *http.Request) bool {
			return strings.HasPrefix(r.URL.Path, "/immutable/")
		}),
	)
	require.NoError(t, err)

	cnt := 0
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cnt++
		w.Write([]byte(fmt.Sprintf("%d", cnt)))
	}))

	get := func(path string) string {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		return w.Body.String()
	}

	require.Equal(t, "1", get("/mutable"))
	require.Equal(t, "2", get("/mutable"))
	require.Equal(t, "3", get("/immutable/a?y=2&x=1"))
	require.Equal(t, "3", get("/immutable/a?x=1&y=2"))

	resp, found := a.Get("/immutable/a?x=1&y=2")
	require.True(t, found)
	require.False(t, resp.Expiration.IsZero())

	resp.Expiration = time.Now().Add(-time.Second)
	require.Equal(t, "4", get("/immutable/a?x=1&y=2"))
}

func TestNewClientWithoutAdapter(t *testing.T) {
	_, err := NewClient()
	require.Error(t, err)
}
