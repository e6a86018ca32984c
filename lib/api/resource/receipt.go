package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/dao/lib/contract"
)

type Receipt struct {
	r *contract.Receipt
}

func NewReceipt(r *contract.Receipt) *Receipt {
	return &Receipt{r: r}
}

func (r Receipt) GetMap() hal.Entry {
	return hal.Entry{
		"operation_id": r.r.OperationID,
		"level":        r.r.Level,
		"calls":        r.r.Calls,
		"dropped":      len(r.r.Dropped()),
		"hash":         r.r.Hash,
	}
}

func (r Receipt) Resource() *hal.Resource {
	return hal.NewResource(r, r.LinkSelf())
}

func (r Receipt) LinkSelf() string {
	return URLCalls
}
