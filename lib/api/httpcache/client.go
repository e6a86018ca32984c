package httpcache

import (
	"bytes"
	"net/http"
	"net/url"
	"sort"
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

// Client caches the successful GET responses of the handlers it wraps.
// Anything but a 200 goes straight to the caller, so a record that does not
// exist yet is never remembered as missing.
type Client struct {
	adapter Adapter
	ttl     time.Duration
	filter  func(*http.Request) bool
	logger  logging.Logger
}

type ClientOption func(c *Client) error

func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		filter: func(*http.Request) bool { return true },
		logger: common.NopLogger(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.adapter == nil {
		return nil, errors.New("cache client adapter is nil")
	}

	return c, nil
}

func WithAdapter(a Adapter) ClientOption {
	return func(c *Client) error {
		c.adapter = a
		return nil
	}
}

// WithExpire sets how long a response is kept; zero keeps it until the
// adapter evicts it.
func WithExpire(ttl time.Duration) ClientOption {
	return func(c *Client) error {
		c.ttl = ttl
		return nil
	}
}

// WithFilter restricts caching to the requests f accepts.
func WithFilter(f func(*http.Request) bool) ClientOption {
	return func(c *Client) error {
		c.filter = f
		return nil
	}
}

func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !c.filter(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r.URL)
		if resp, ok := c.adapter.Get(key); ok {
			if !resp.Expired(time.Now()) {
				c.logger.Debug("cache hit", "key", key)
				resp.write(w)
				return
			}
			c.adapter.Remove(key)
		}

		rec := newRecorder()
		next.ServeHTTP(rec, r)

		resp := &Response{
			Value:      rec.body.Bytes(),
			StatusCode: rec.code,
			Header:     rec.header,
		}
		if resp.StatusCode == http.StatusOK {
			c.adapter.Set(key, resp, c.expiration())
			c.logger.Debug("response cached", "key", key)
		}
		resp.write(w)
	})
}

func (c *Client) expiration() time.Time {
	if c.ttl == 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}

// cacheKey is the url with its query parameters in a stable order.
func cacheKey(u *url.URL) string {
	params := u.Query()
	for _, p := range params {
		sort.Strings(p)
	}

	k := *u
	k.RawQuery = params.Encode()
	return k.String()
}

type recorder struct {
	header http.Header
	code   int
	body   *bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: http.Header{}, code: http.StatusOK, body: &bytes.Buffer{}}
}

func (r *recorder) Header() http.Header         { return r.header }
func (r *recorder) Write(b []byte) (int, error) { return r.body.Write(b) }
func (r *recorder) WriteHeader(code int)        { r.code = code }
