package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boscoin.io/dao/lib/api/httpcache"
	"boscoin.io/dao/lib/common"
)

type RouterConfig struct {
	Cache      httpcache.Middlewarer
	RateLimit  string
	PrintStack bool
	// JSONRPC exposes the raw storage at JSONRPCPattern.
	JSONRPC bool
}

// IsImmutable is true for the requests whose response can not change once
// it was successful: a single archived outcome.
func IsImmutable(r *http.Request) bool {
	route := mux.CurrentRoute(r)
	if route == nil {
		return false
	}
	tpl, err := route.GetPathTemplate()
	return err == nil && strings.HasSuffix(tpl, GetOutcomePattern)
}

// NewRouter registers every endpoint of api. Reads of single outcomes go
// through the cache and writes through the rate limit.
func NewRouter(api *NetworkHandlerAPI, config RouterConfig) (*mux.Router, error) {
	if config.Cache == nil {
		config.Cache = httpcache.NewNopClient()
	}
	rateLimit, err := RateLimitMiddleware(config.RateLimit)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Use(RecoverMiddleware(config.PrintStack))
	router.Use(MetricsMiddleware)

	router.Handle(MetricsPattern, promhttp.Handler()).Methods("GET")
	if config.JSONRPC {
		router.Handle(JSONRPCPattern, NewJSONRPCHandler(api.host)).
			Methods("POST").
			MatcherFunc(common.PostAndJSONMatcher)
	}

	router.HandleFunc(api.HandlerURLPattern(GetInfoPattern), api.GetInfoHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(api.HandlerURLPattern(GetContractPattern), api.GetContractHandler).Methods("GET", "OPTIONS")
	router.HandleFunc(api.HandlerURLPattern(GetOutcomesPattern), api.GetOutcomesHandler).Methods("GET", "OPTIONS")
	router.Handle(
		api.HandlerURLPattern(GetOutcomePattern),
		config.Cache.Middleware(http.HandlerFunc(api.GetOutcomeHandler)),
	).Methods("GET", "OPTIONS")

	router.Handle(
		api.HandlerURLPattern(PostCallsPattern),
		rateLimit(http.HandlerFunc(api.PostCallsHandler)),
	).Methods("POST", "OPTIONS")
	router.Handle(
		api.HandlerURLPattern(PostLevelPattern),
		rateLimit(http.HandlerFunc(api.PostLevelHandler)),
	).Methods("POST", "OPTIONS")

	return router, nil
}
