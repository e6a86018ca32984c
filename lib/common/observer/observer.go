package observer

import (
	"github.com/GianlucaGuarini/go-observable"
)

// ContractObserver publishes what happened to contract calls once their
// state is committed or discarded.
var ContractObserver = observable.New()

const (
	// EventCall is triggered with a `CallEvent` for every delivered operation
	EventCall = "call"
	// EventDrop is triggered with a `CallEvent` when an internal operation
	// was rejected by its receiver and discarded
	EventDrop = "drop"
	// EventOutcome is triggered with an `OutcomeEvent` when an engine
	// archives a poll outcome
	EventOutcome = "outcome"
)

type CallEvent struct {
	OperationID string `json:"operation_id"`
	Sender      string `json:"sender"`
	Contract    string `json:"contract"`
	Method      string `json:"method"`
	Level       uint64 `json:"level"`
	Error       error  `json:"error,omitempty"`
}

type OutcomeEvent struct {
	Contract string `json:"contract"`
	VoteID   uint64 `json:"vote_id"`
	Outcome  string `json:"outcome"`
}
