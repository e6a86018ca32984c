package scenario

import (
	"boscoin.io/dao/lib/contract"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
)

type StepResult struct {
	Index    int               `json:"index" yaml:"index"`
	Kind     string            `json:"kind" yaml:"kind"`
	Sender   string            `json:"sender,omitempty" yaml:"sender,omitempty"`
	Contract string            `json:"contract,omitempty" yaml:"contract,omitempty"`
	Method   string            `json:"method,omitempty" yaml:"method,omitempty"`
	Level    uint64            `json:"level" yaml:"level"`
	Receipt  *contract.Receipt `json:"receipt,omitempty" yaml:"receipt,omitempty"`
	Error    *errors.Error     `json:"error,omitempty" yaml:"error,omitempty"`
}

type Report struct {
	Name      string                                 `json:"name,omitempty" yaml:"name,omitempty"`
	Delivery  string                                 `json:"delivery" yaml:"delivery"`
	Level     uint64                                 `json:"level" yaml:"level"`
	Actors    map[string]string                      `json:"actors" yaml:"actors"`
	Contracts map[string]string                      `json:"contracts" yaml:"contracts"`
	Steps     []StepResult                           `json:"steps" yaml:"steps"`
	Outcomes  map[string][]governance.IndexedOutcome `json:"outcomes" yaml:"outcomes"`
	Storage   map[string]interface{}                 `json:"storage" yaml:"storage"`
}

func newReport(s *Scenario, h *contract.Host) *Report {
	return &Report{
		Name:      s.Name,
		Delivery:  h.Mode().String(),
		Actors:    map[string]string{},
		Contracts: map[string]string{},
		Outcomes:  map[string][]governance.IndexedOutcome{},
		Storage:   map[string]interface{}{},
	}
}

// Outcome returns the outcome archived by the named contract for voteID.
func (r *Report) Outcome(name string, voteID uint64) (governance.IndexedOutcome, bool) {
	for _, o := range r.Outcomes[name] {
		if o.VoteID == voteID {
			return o, true
		}
	}
	return governance.IndexedOutcome{}, false
}
