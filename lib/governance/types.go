package governance

import (
	"encoding/json"
	"strings"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

// entrypoints
const (
	EntrySetAdministrator  = "set_administrator"
	EntrySetMetadata       = "set_metadata"
	EntrySetPollLeader     = "set_poll_leader"
	EntrySetPhase2Contract = "set_phase_2_contract"
	EntryMutezTransfer     = "mutez_transfer"
	EntryStart             = "start"
	EntryVote              = "vote"
	EntryEnd               = "end"
	EntryProposeCallback   = "propose_callback"
	EntryEndCallback       = "end_callback"
)

type VoteValue uint8

const (
	Yay VoteValue = iota
	Nay
	Abstain

	// InvalidVoteValue is what any unknown encoded value decodes to.
	InvalidVoteValue VoteValue = 0xff
)

var voteValueNames = map[VoteValue]string{
	Yay:     "yay",
	Nay:     "nay",
	Abstain: "abstain",
}

func (v VoteValue) Valid() bool {
	_, ok := voteValueNames[v]
	return ok
}

func (v VoteValue) String() string {
	if name, ok := voteValueNames[v]; ok {
		return name
	}
	return "invalid"
}

func ParseVoteValue(s string) (VoteValue, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range voteValueNames {
		if name == s {
			return v, nil
		}
	}
	return InvalidVoteValue, errors.InvalidVoteValue
}

func (v VoteValue) MarshalJSON() ([]byte, error) {
	if !v.Valid() {
		return json.Marshal(uint8(v))
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts 0, 1, 2 or their names. Anything else decodes to
// InvalidVoteValue so the entrypoint can reject it.
func (v *VoteValue) UnmarshalJSON(b []byte) error {
	*v = InvalidVoteValue

	var n uint64
	if err := json.Unmarshal(b, &n); err == nil {
		if n <= uint64(Abstain) {
			*v = VoteValue(n)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, err := ParseVoteValue(s); err == nil {
			*v = parsed
		}
	}

	return nil
}

type PollOutcome uint8

const (
	Passed PollOutcome = iota
	Failed
)

func (o PollOutcome) String() string {
	switch o {
	case Passed:
		return "PASSED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

func (o PollOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *PollOutcome) UnmarshalJSON(b []byte) error {
	var n uint64
	if err := json.Unmarshal(b, &n); err == nil {
		if n > uint64(Failed) {
			return errors.InvalidPayload
		}
		*o = PollOutcome(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.InvalidPayload
	}
	switch strings.ToUpper(s) {
	case "PASSED":
		*o = Passed
	case "FAILED":
		*o = Failed
	default:
		return errors.InvalidPayload
	}
	return nil
}

type VoteRecord struct {
	VoteValue VoteValue `json:"vote_value"`
	Level     uint64    `json:"level"`
	Votes     uint64    `json:"votes"`
}

// Outcome is the archived result of one poll. PollData is the engine's poll
// as it was when the poll closed.
type Outcome struct {
	Outcome  PollOutcome     `json:"outcome"`
	PollData json.RawMessage `json:"poll_data"`
}

func NewOutcome(outcome PollOutcome, poll interface{}) (Outcome, error) {
	b, err := common.EncodeJSONValue(poll)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Outcome: outcome, PollData: b}, nil
}

// DecodePoll fills v with the archived poll.
func (o Outcome) DecodePoll(v interface{}) error {
	return common.DecodeJSONValue(o.PollData, v)
}

type QuorumCap struct {
	Lower uint64 `json:"lower"`
	Upper uint64 `json:"upper"`
}

func (c QuorumCap) Clamp(q uint64) uint64 {
	if q < c.Lower {
		return c.Lower
	}
	if q > c.Upper {
		return c.Upper
	}
	return q
}

type StartParams struct {
	TotalAvailableVoters uint64 `json:"total_available_voters"`
}

type VoteParams struct {
	Votes     uint64    `json:"votes"`
	Address   string    `json:"address"`
	VoteValue VoteValue `json:"vote_value"`
	VoteID    uint64    `json:"vote_id"`
}

type EndParams struct {
	VoteID uint64 `json:"vote_id"`
}

type ProposeCallbackParams struct {
	VoteID     uint64 `json:"vote_id"`
	StartLevel uint64 `json:"start_level"`
}

type EndCallbackParams struct {
	VotingID      uint64      `json:"voting_id"`
	VotingOutcome PollOutcome `json:"voting_outcome"`
}

type AddressParams struct {
	Address string `json:"address"`
}

type MetadataParams struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type TransferParams struct {
	Destination string        `json:"destination"`
	Amount      common.Amount `json:"amount"`
}
