package leader

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/storage"
)

// Proposal is the proposal the leader is currently running. It is pending
// until the engine confirms it with propose_callback.
type Proposal struct {
	Proposer      string            `json:"proposer"`
	Description   string            `json:"description,omitempty"`
	ProposedLevel uint64            `json:"proposed_level"`
	Confirmed     bool              `json:"confirmed"`
	VoteID        uint64            `json:"vote_id"`
	StartLevel    uint64            `json:"start_level"`
	Casts         map[string]uint64 `json:"casts"`
}

// SnapshotLevel is the level whose balances weigh the casts: the last one
// before the engine opens voting. Once voting is open nothing can be
// written at that level any more.
func (p *Proposal) SnapshotLevel() uint64 {
	if p.StartLevel < 1 {
		return 0
	}
	return p.StartLevel - 1
}

type Storage struct {
	Admin       string    `json:"admin"`
	Engine      string    `json:"engine,omitempty"`
	Proposal    *Proposal `json:"proposal,omitempty"`
	ResultCount uint64    `json:"result_count"`
}

func (s *Storage) CheckAdmin(sender string) error {
	a := governance.Administration{Admin: s.Admin}
	return a.CheckAdmin(sender)
}

func Load(st *storage.LevelDBBackend, address string) (*Storage, error) {
	var s Storage
	if err := governance.LoadState(st, address, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// View is the read view of a leader: its storage plus the token holders.
type View struct {
	*Storage
	TotalSupply common.Amount            `json:"total_supply"`
	Holders     map[string]common.Amount `json:"holders"`
}

type TokenParams struct {
	To     string        `json:"to"`
	Amount common.Amount `json:"amount"`
}

type ProposeParams struct {
	Description string `json:"description"`
}

type CastParams struct {
	VoteValue governance.VoteValue `json:"vote_value"`
}
