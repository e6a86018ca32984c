package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/dao/lib/common"
)

// Contract is the read view of a deployed contract.
type Contract struct {
	Address string
	Balance common.Amount
	Storage interface{}
}

func (c Contract) GetMap() hal.Entry {
	return hal.Entry{
		"address": c.Address,
		"balance": c.Balance,
		"storage": c.Storage,
	}
}

func (c Contract) Resource() *hal.Resource {
	r := hal.NewResource(c, c.LinkSelf())
	r.AddLink("outcomes", hal.NewLink(contractURL(URLOutcomes, c.Address)+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	return r
}

func (c Contract) LinkSelf() string {
	return contractURL(URLContract, c.Address)
}
