package httpcache

import (
	"time"

	redisCache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

// RedisCacheAdapter keeps responses in a redis ring, encoded with msgpack,
// so several api servers can share them.
type RedisCacheAdapter struct {
	ring  *redis.Ring
	store *redisCache.Codec
}

func NewRedisCacheAdapter(addrs map[string]string) *RedisCacheAdapter {
	ring := redis.NewRing(&redis.RingOptions{Addrs: addrs})

	return &RedisCacheAdapter{
		ring: ring,
		store: &redisCache.Codec{
			Redis: ring,
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
	}
}

func (a *RedisCacheAdapter) Ping() error {
	return a.ring.Ping().Err()
}

func (a *RedisCacheAdapter) Get(key string) (*Response, bool) {
	var resp Response
	if err := a.store.Get(key, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (a *RedisCacheAdapter) Set(key string, resp *Response, expiration time.Time) {
	var ttl time.Duration
	if !expiration.IsZero() {
		ttl = time.Until(expiration)
	}
	resp.Expiration = expiration

	err := a.store.Set(&redisCache.Item{
		Key:        key,
		Object:     resp,
		Expiration: ttl,
	})
	if err != nil {
		log.Error("failed to store response", "key", key, "error", err)
	}
}

func (a *RedisCacheAdapter) Remove(key string) {
	a.store.Delete(key)
}

func (a *RedisCacheAdapter) Close() error {
	return a.ring.Close()
}
