package api

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter"
	limiterstdlib "github.com/ulule/limiter/drivers/middleware/stdlib"
	limitermemory "github.com/ulule/limiter/drivers/store/memory"

	"boscoin.io/dao/lib/httputils"
	"boscoin.io/dao/lib/metrics"
)

func RecoverMiddleware(printStack bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", r)
					}
					httputils.WriteJSONError(w, err)
					log.Error("recover an panic", "err", err)
					if printStack {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware counts requests per route template.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		endpoint := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				endpoint = tpl
			}
		}

		metrics.API.Observe(endpoint, r.Method, rec.status, time.Since(began))
	})
}

// RateLimitMiddleware limits requests per client ip with rule, formatted
// like `100-M` (100 requests a minute). An empty rule disables the limit.
func RateLimitMiddleware(rule string) (mux.MiddlewareFunc, error) {
	if len(rule) < 1 {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	rate, err := limiter.NewRateFromFormatted(rule)
	if err != nil {
		return nil, err
	}

	m := limiterstdlib.NewMiddleware(limiter.New(limitermemory.NewStore(), rate))
	return m.Handler, nil
}
