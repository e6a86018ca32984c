package httpcache

import (
	"fmt"
	"net/http"
	"strings"

	"boscoin.io/dao/lib/errors"
)

const (
	AdapterNone   = "none"
	AdapterMemory = "memory"
	AdapterRedis  = "redis"

	DefaultPoolSize = 10000
)

// Middlewarer is satisfied by Client and NopClient.
type Middlewarer interface {
	Middleware(next http.Handler) http.Handler
}

// NewAdapter builds the adapter named by name. redisAddrs is a comma
// separated list of `name=host:port` or `host:port` shards.
func NewAdapter(name string, poolSize int, redisAddrs string) (Adapter, error) {
	switch name {
	case AdapterMemory:
		if poolSize < 1 {
			poolSize = DefaultPoolSize
		}
		return NewMemCacheAdapter(poolSize)
	case AdapterRedis:
		addrs := ParseRedisAddrs(redisAddrs)
		if len(addrs) < 1 {
			return nil, errors.BadRequestParameter.Clone().SetData("redis", redisAddrs)
		}
		return NewRedisCacheAdapter(addrs), nil
	default:
		return nil, errors.BadRequestParameter.Clone().SetData("adapter", name)
	}
}

func ParseRedisAddrs(s string) map[string]string {
	addrs := map[string]string{}
	for i, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if len(a) < 1 {
			continue
		}
		if kv := strings.SplitN(a, "=", 2); len(kv) == 2 {
			addrs[kv[0]] = kv[1]
			continue
		}
		addrs[fmt.Sprintf("shard%d", i)] = a
	}
	return addrs
}
