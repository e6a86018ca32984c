package api

import (
	"bytes"
	"net/http"
	"testing"

	rpcjson "github.com/gorilla/rpc/json"
	"github.com/stretchr/testify/require"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/governance"
	"boscoin.io/dao/lib/governance/leader"
)

func (ts *testServer) jsonrpc(t *testing.T, method string, args interface{}, result interface{}) error {
	message, err := rpcjson.EncodeClientRequest(method, args)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+JSONRPCPattern, "application/json", bytes.NewBuffer(message))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return rpcjson.DecodeClientResponse(resp.Body, result)
}

func TestJSONRPCDisabled(t *testing.T) {
	ts := prepareAPIServer(t, RouterConfig{})
	defer ts.close()

	resp, err := http.Post(ts.URL+JSONRPCPattern, "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestJSONRPCDB(t *testing.T) {
	ts := prepareAPIServer(t, RouterConfig{JSONRPC: true})
	defer ts.close()

	key := governance.StateKey(leaderAddress)

	{
		var result DBHasResult
		args := DBHasArgs(key)
		require.NoError(t, ts.jsonrpc(t, "DB.Has", &args, &result))
		require.True(t, bool(result))

		args = DBHasArgs("unknown")
		require.NoError(t, ts.jsonrpc(t, "DB.Has", &args, &result))
		require.False(t, bool(result))
	}

	{
		var result DBGetResult
		args := DBGetArgs(key)
		require.NoError(t, ts.jsonrpc(t, "DB.Get", &args, &result))
		require.Equal(t, key, string(result.Key))

		var s leader.Storage
		require.NoError(t, common.DecodeJSONValue(result.Value, &s))
		require.Equal(t, adminAddress, s.Admin)
		require.Equal(t, engineAddress, s.Engine)

		args = DBGetArgs("unknown")
		require.Error(t, ts.jsonrpc(t, "DB.Get", &args, &result))
	}

	{
		var result DBGetIteratorResult
		args := DBGetIteratorArgs{Prefix: "vp-cp-" + leaderAddress + "-"}
		require.NoError(t, ts.jsonrpc(t, "DB.GetIterator", &args, &result))
		require.Equal(t, MaxLimitListOptions, result.Limit)
		require.Equal(t, 2, len(result.Items))
		require.Equal(t, "vp-cp-"+leaderAddress+"-tz1alice", string(result.Items[0].Key))

		args.Options = GetIteratorOptions{Reverse: true, Limit: 1}
		require.NoError(t, ts.jsonrpc(t, "DB.GetIterator", &args, &result))
		require.Equal(t, uint64(1), result.Limit)
		require.Equal(t, 1, len(result.Items))
		require.Equal(t, "vp-cp-"+leaderAddress+"-tz1bob", string(result.Items[0].Key))
	}
}
