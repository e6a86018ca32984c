package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"boscoin.io/dao/lib/api/resource"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/httputils"
	"boscoin.io/dao/lib/storage"
)

func (api NetworkHandlerAPI) contractAddress(r *http.Request) (string, error) {
	address := mux.Vars(r)["address"]
	if _, found := api.host.Contract(address); !found {
		return "", errors.ContractNotFound.Clone().SetData("contract", address)
	}
	return address, nil
}

func (api NetworkHandlerAPI) GetContractHandler(w http.ResponseWriter, r *http.Request) {
	address, err := api.contractAddress(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	c, _ := api.host.Contract(address)

	res := resource.Contract{Address: address}
	err = api.host.View(func(st *storage.LevelDBBackend) (err error) {
		if res.Balance, err = context.GetBalance(st, address); err != nil {
			return
		}
		if viewer, ok := c.(governance.Viewer); ok {
			res.Storage, err = viewer.View(st, address)
		}
		return
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, res)
}

func (api NetworkHandlerAPI) GetOutcomesHandler(w http.ResponseWriter, r *http.Request) {
	address, err := api.contractAddress(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var outcomes []governance.IndexedOutcome
	err = api.host.View(func(st *storage.LevelDBBackend) (err error) {
		outcomes, err = governance.ListOutcomes(st, address, p.ListOptions(func(id uint64) string {
			return governance.OutcomeKey(address, id)
		}))
		return
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	for _, o := range outcomes {
		rs = append(rs, resource.NewOutcome(address, o))
	}

	var nextLink, prevLink string
	if len(outcomes) > 0 {
		nextLink = p.NextLink(outcomes[len(outcomes)-1].VoteID)
		prevLink = p.PrevLink(outcomes[0].VoteID)
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewResourceList(rs, p.SelfLink(), nextLink, prevLink))
}

func (api NetworkHandlerAPI) GetOutcomeHandler(w http.ResponseWriter, r *http.Request) {
	address, err := api.contractAddress(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	voteID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("id", id))
		return
	}

	var outcome governance.Outcome
	err = api.host.View(func(st *storage.LevelDBBackend) (err error) {
		outcome, err = governance.GetOutcome(st, address, voteID)
		return
	})
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.MustWriteJSON(w, http.StatusOK, resource.NewOutcome(address, governance.IndexedOutcome{
		VoteID:  voteID,
		Outcome: outcome,
	}))
}
