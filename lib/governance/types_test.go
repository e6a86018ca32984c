package governance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/dao/lib/errors"
)

func TestVoteValueJSON(t *testing.T) {
	cases := map[string]VoteValue{
		`0`:         Yay,
		`1`:         Nay,
		`2`:         Abstain,
		`"yay"`:     Yay,
		`"NAY"`:     Nay,
		`"abstain"`: Abstain,
		`3`:         InvalidVoteValue,
		`-1`:        InvalidVoteValue,
		`"maybe"`:   InvalidVoteValue,
		`true`:      InvalidVoteValue,
		`{}`:        InvalidVoteValue,
	}

	for encoded, expected := range cases {
		var v VoteValue
		require.NoError(t, json.Unmarshal([]byte(encoded), &v), encoded)
		require.Equal(t, expected, v, encoded)
	}

	b, err := json.Marshal(VoteParams{Votes: 10, Address: "tz1", VoteValue: Nay, VoteID: 2})
	require.NoError(t, err)
	require.Equal(t, `{"votes":10,"address":"tz1","vote_value":"nay","vote_id":2}`, string(b))

	// an invalid value stays invalid when it is sent on
	b, err = json.Marshal(InvalidVoteValue)
	require.NoError(t, err)
	var v VoteValue
	require.NoError(t, json.Unmarshal(b, &v))
	require.False(t, v.Valid())
}

func TestParseVoteValue(t *testing.T) {
	v, err := ParseVoteValue(" Abstain ")
	require.NoError(t, err)
	require.Equal(t, Abstain, v)

	_, err = ParseVoteValue("yes")
	require.Equal(t, errors.InvalidVoteValue, err)
}

func TestPollOutcomeJSON(t *testing.T) {
	b, err := json.Marshal(EndCallbackParams{VotingID: 4, VotingOutcome: Failed})
	require.NoError(t, err)
	require.Equal(t, `{"voting_id":4,"voting_outcome":"FAILED"}`, string(b))

	var params EndCallbackParams
	require.NoError(t, json.Unmarshal(b, &params))
	require.Equal(t, Failed, params.VotingOutcome)

	var o PollOutcome
	require.NoError(t, json.Unmarshal([]byte(`0`), &o))
	require.Equal(t, Passed, o)
	require.Error(t, json.Unmarshal([]byte(`2`), &o))
	require.Error(t, json.Unmarshal([]byte(`"DRAW"`), &o))
}

func TestOutcomePollData(t *testing.T) {
	type poll struct {
		TotalVotes uint64 `json:"total_votes"`
	}

	o, err := NewOutcome(Passed, poll{TotalVotes: 4400})
	require.NoError(t, err)

	var decoded poll
	require.NoError(t, o.DecodePoll(&decoded))
	require.Equal(t, uint64(4400), decoded.TotalVotes)
}
