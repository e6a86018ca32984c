//
// Package api serves a contract host over http: submitting calls, moving
// the level and reading contract storage and archived outcomes.
//
package api

import (
	"fmt"

	"boscoin.io/dao/lib/contract"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetInfoPattern     = "/"
	PostCallsPattern   = "/calls"
	PostLevelPattern   = "/level"
	GetContractPattern = "/contracts/{address}"
	GetOutcomesPattern = "/contracts/{address}/outcomes"
	GetOutcomePattern  = "/contracts/{address}/outcomes/{id}"

	MetricsPattern = "/metrics"
)

// MaxBodySize limits the body of POST requests.
const MaxBodySize int64 = 1 << 20

type NetworkHandlerAPI struct {
	host      *contract.Host
	urlPrefix string
	version   string
}

func NewNetworkHandlerAPI(host *contract.Host, urlPrefix string) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		host:      host,
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
	}
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}
