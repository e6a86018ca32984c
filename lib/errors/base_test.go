package errors

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/require"
)

func TestErrorsClone(t *testing.T) {
	require.Equal(t, AlreadyVoted, AlreadyVoted)

	e := AlreadyVoted.Clone()
	e0 := e.Clone()
	require.NotEqual(t, fmt.Sprintf("%p", e), fmt.Sprintf("%p", e0))

	{
		e.Code = 200
		require.NotEqual(t, e.Code, e0.Code)
	}

	{
		e0.SetData("showme", "killme")
		require.NotEqual(t, e.Data, e0.Data)
	}
}

func TestErrorsIs(t *testing.T) {
	e := InvalidVoteId.Clone().SetData("vote_id", 3)
	require.True(t, InvalidVoteId.Is(e))
	require.False(t, AlreadyVoted.Is(e))
	require.False(t, AlreadyVoted.Is(fmt.Errorf("showme")))
}

func TestErrorsRLP(t *testing.T) {
	{
		_, err := rlp.EncodeToBytes(Unauthorized)
		require.NoError(t, err)
	}

	{ // with `SetData()`, the rlp encoded value must be different
		encoded, err := rlp.EncodeToBytes(Unauthorized)
		require.NoError(t, err)

		e := Unauthorized.Clone()
		e.SetData("findme", "killme")
		encoded0, err := rlp.EncodeToBytes(e)
		require.NoError(t, err)
		require.NotEqual(t, encoded, encoded0)
	}

	{ // any data value can be encoded
		e := Unauthorized.Clone().SetData("step", -1).SetData("ratio", 0.5)
		_, err := rlp.EncodeToBytes(e)
		require.NoError(t, err)

		var nilError *Error
		_, err = rlp.EncodeToBytes(nilError)
		require.NoError(t, err)
	}
}
