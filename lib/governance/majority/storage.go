package majority

import (
	"encoding/json"

	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/storage"
)

type State uint8

const (
	StateNone State = iota
	StateInProgress
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateInProgress:
		return "IN_PROGRESS"
	default:
		return "UNKNOWN"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "NONE":
		*s = StateNone
	case "IN_PROGRESS":
		*s = StateInProgress
	default:
		*s = State(0xff)
	}
	return nil
}

// Poll is the live poll; it exists only while the engine is IN_PROGRESS.
type Poll struct {
	VoteID           uint64                           `json:"vote_id"`
	VoteYay          uint64                           `json:"vote_yay"`
	VoteNay          uint64                           `json:"vote_nay"`
	VoteAbstain      uint64                           `json:"vote_abstain"`
	TotalVotes       uint64                           `json:"total_votes"`
	VotingStartLevel uint64                           `json:"voting_start_level"`
	VotingEndLevel   uint64                           `json:"voting_end_level"`
	Quorum           uint64                           `json:"quorum"`
	Voters           map[string]governance.VoteRecord `json:"voters"`
}

func (p *Poll) add(address string, record governance.VoteRecord) {
	switch record.VoteValue {
	case governance.Yay:
		p.VoteYay += record.Votes
	case governance.Nay:
		p.VoteNay += record.Votes
	case governance.Abstain:
		p.VoteAbstain += record.Votes
	}
	p.TotalVotes += record.Votes
	p.Voters[address] = record
}

func (p *Poll) InWindow(level uint64) bool {
	return p.VotingStartLevel <= level && level <= p.VotingEndLevel
}

// Storage is everything a majority engine persists, except its outcome
// archive.
type Storage struct {
	governance.Administration

	Params        Params `json:"params"`
	State         State  `json:"state"`
	VoteID        uint64 `json:"vote_id"`
	Poll          *Poll  `json:"poll,omitempty"`
	DynamicQuorum uint64 `json:"current_dynamic_quorum"`
	OutcomeCount  uint64 `json:"outcome_count"`
}

func Load(st *storage.LevelDBBackend, address string) (*Storage, error) {
	var s Storage
	if err := governance.LoadState(st, address, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
