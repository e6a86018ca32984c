package contract

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

type CallStatus string

const (
	CallApplied CallStatus = "applied"
	CallFailed  CallStatus = "failed"
	// CallDropped marks an internal call which was rejected and discarded
	// while the rest of the group went on.
	CallDropped CallStatus = "dropped"
	// CallBacktracked marks calls whose state was rolled back because a
	// later call in the same atomic group failed.
	CallBacktracked CallStatus = "backtracked"
)

type CallResult struct {
	Sender   string        `json:"sender"`
	Contract string        `json:"contract"`
	Method   string        `json:"method"`
	Depth    int           `json:"depth"`
	Status   CallStatus    `json:"status"`
	Error    *errors.Error `json:"error,omitempty"`
}

// Receipt describes what happened to one submitted operation and every
// internal operation it caused, in delivery order.
type Receipt struct {
	OperationID string       `json:"operation_id"`
	Level       uint64       `json:"level"`
	Calls       []CallResult `json:"calls"`
	// Hash digests the level and the calls, so two receipts telling the
	// same story have the same hash whatever their operation ids.
	Hash string `json:"hash"`
}

type hashedCall struct {
	Sender   string
	Contract string
	Method   string
	Depth    uint
	Status   string
	Error    *errors.Error
}

func (r *Receipt) makeHash() (string, error) {
	calls := make([]hashedCall, len(r.Calls))
	for i, c := range r.Calls {
		calls[i] = hashedCall{
			Sender:   c.Sender,
			Contract: c.Contract,
			Method:   c.Method,
			Depth:    uint(c.Depth),
			Status:   string(c.Status),
			Error:    c.Error,
		}
	}

	return common.MakeObjectHashString(struct {
		Level uint64
		Calls []hashedCall
	}{
		Level: r.Level,
		Calls: calls,
	})
}

func (r *Receipt) add(result CallResult) {
	r.Calls = append(r.Calls, result)
}

func (r *Receipt) backtrack() {
	for i := range r.Calls {
		if r.Calls[i].Status == CallApplied {
			r.Calls[i].Status = CallBacktracked
		}
	}
}

func (r *Receipt) Dropped() []CallResult {
	var dropped []CallResult
	for _, c := range r.Calls {
		if c.Status == CallDropped {
			dropped = append(dropped, c)
		}
	}
	return dropped
}

func (r Receipt) String() string {
	return string(common.MustMarshalJSON(r))
}
