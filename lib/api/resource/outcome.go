package resource

import (
	"strconv"
	"strings"

	"github.com/nvellon/hal"

	"boscoin.io/dao/lib/governance"
)

type Outcome struct {
	Address string
	VoteID  uint64
	Outcome governance.Outcome
}

func NewOutcome(address string, o governance.IndexedOutcome) *Outcome {
	return &Outcome{
		Address: address,
		VoteID:  o.VoteID,
		Outcome: o.Outcome,
	}
}

func (o Outcome) GetMap() hal.Entry {
	return hal.Entry{
		"contract":  o.Address,
		"vote_id":   o.VoteID,
		"outcome":   o.Outcome.Outcome,
		"poll_data": o.Outcome.PollData,
	}
}

func (o Outcome) Resource() *hal.Resource {
	r := hal.NewResource(o, o.LinkSelf())
	r.AddLink("contract", hal.NewLink(contractURL(URLContract, o.Address)))
	return r
}

func (o Outcome) LinkSelf() string {
	return strings.Replace(contractURL(URLOutcome, o.Address), "{id}", strconv.FormatUint(o.VoteID, 10), -1)
}
