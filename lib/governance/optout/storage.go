package optout

import (
	"encoding/json"

	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/storage"
)

type State uint8

const (
	StateNone State = iota
	StatePhase1
	StateStartingPhase2
	StatePhase2
	StateEndingPhase2
)

var stateNames = map[State]string{
	StateNone:           "NONE",
	StatePhase1:         "PHASE_1",
	StateStartingPhase2: "STARTING_PHASE_2",
	StatePhase2:         "PHASE_2",
	StateEndingPhase2:   "ENDING_PHASE_2",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}

	*s = State(0xff)
	for state, n := range stateNames {
		if n == name {
			*s = state
			break
		}
	}
	return nil
}

// Poll spans both phases of one opt-out poll. The phase 2 fields link it to
// the poll run by the phase 2 engine.
type Poll struct {
	VoteID             uint64                           `json:"vote_id"`
	Phase1Objection    uint64                           `json:"phase_1_objection"`
	VotingStartLevel   uint64                           `json:"voting_start_level"`
	VotingEndLevel     uint64                           `json:"voting_end_level"`
	ObjectionThreshold uint64                           `json:"objection_threshold"`
	TotalVoters        uint64                           `json:"total_voters"`
	Phase2Needed       bool                             `json:"phase_2_needed"`
	Phase2VoteID       uint64                           `json:"phase_2_vote_id"`
	Phase2StartLevel   uint64                           `json:"phase_2_start_level"`
	Phase1Voters       map[string]governance.VoteRecord `json:"phase_1_voters"`
}

func (p *Poll) InWindow(level uint64) bool {
	return p.VotingStartLevel <= level && level <= p.VotingEndLevel
}

func (p *Poll) Objected() bool {
	return p.Phase1Objection >= p.ObjectionThreshold
}

type Storage struct {
	governance.Administration

	Phase2Contract string `json:"phase_2_majority_vote_contract,omitempty"`
	Params         Params `json:"params"`
	State          State  `json:"state"`
	VoteID         uint64 `json:"vote_id"`
	Poll           *Poll  `json:"poll,omitempty"`
	OutcomeCount   uint64 `json:"outcome_count"`
}

func Load(st *storage.LevelDBBackend, address string) (*Storage, error) {
	var s Storage
	if err := governance.LoadState(st, address, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
