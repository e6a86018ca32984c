package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"boscoin.io/dao/lib/api/resource"
	"boscoin.io/dao/lib/contract/payload"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/httputils"
)

// CallRequest is the body of `POST /v1/calls`.
type CallRequest struct {
	Sender string `json:"sender"`
	payload.ExecCode
}

// LevelRequest is the body of `POST /v1/level`; either the level moves by
// Advance or it is set to Level.
type LevelRequest struct {
	Advance uint64  `json:"advance,omitempty"`
	Level   *uint64 `json:"level,omitempty"`
}

func readJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if !httputils.IsJSONContentType(r) {
		return errors.ContentTypeNotJSON
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}
	if err = json.Unmarshal(body, v); err != nil {
		return errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	return nil
}

func (api NetworkHandlerAPI) PostCallsHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req CallRequest
	if err := readJSONBody(w, r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	if len(req.Sender) < 1 || len(req.ContractAddress) < 1 || len(req.Method) < 1 {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", "sender, contract and method are required"))
		return
	}

	code := req.ExecCode
	receipt, err := api.host.Submit(req.Sender, &code)
	if err != nil {
		log.Debug("call rejected", "sender", req.Sender, "code", code, "error", err)
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewReceipt(receipt))
}

func (api NetworkHandlerAPI) PostLevelHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req LevelRequest
	if err := readJSONBody(w, r, &req); err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var err error
	if req.Level != nil {
		err = api.host.SetLevel(*req.Level)
	} else {
		_, err = api.host.AdvanceLevel(req.Advance)
	}
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, api.info())
}
