package api

import (
	"net/http"

	"boscoin.io/dao/lib/api/resource"
	"boscoin.io/dao/lib/httputils"
	"boscoin.io/dao/lib/version"
)

func (api NetworkHandlerAPI) info() resource.Info {
	return resource.Info{
		Version:   version.Version,
		Level:     api.host.Level(),
		Delivery:  api.host.Mode().String(),
		Contracts: api.host.Contracts(),
	}
}

func (api NetworkHandlerAPI) GetInfoHandler(w http.ResponseWriter, r *http.Request) {
	httputils.MustWriteJSON(w, http.StatusOK, api.info())
}
