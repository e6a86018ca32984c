package storage

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/dao/lib/errors"
)

func TestLevelDBBackendInitFileStorage(t *testing.T) {
	path, _ := ioutil.TempDir("", "dao")
	defer CleanDB(path)

	config, err := NewConfigFromString("file://" + path)
	require.NoError(t, err)

	st, err := NewStorage(config)
	require.NoError(t, err)
	defer st.Close()
}

func TestLevelDBBackendInitMemStorage(t *testing.T) {
	config, err := NewConfigFromString("memory://")
	require.NoError(t, err)
	require.Equal(t, "memory", config.Scheme)

	st, err := NewStorage(config)
	require.NoError(t, err)
	defer st.Close()
}

func TestNewConfigFromStringUnknownScheme(t *testing.T) {
	_, err := NewConfigFromString("redis://localhost")
	require.Error(t, err)

	_, err = NewConfigFromString("file://")
	require.Error(t, err)
}

func TestLevelDBBackendNew(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	key := "showme"
	input := map[int]string{
		90: "99",
		91: "91",
		92: "92",
	}
	require.NoError(t, st.New(key, input))

	fetched := map[int]string{}
	require.NoError(t, st.Get(key, &fetched))
	require.Equal(t, input, fetched)

	// 'New' only for new key
	require.Equal(t, errors.StorageRecordAlreadyExists, st.New(key, input))
}

func TestLevelDBBackendSetAndPut(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	require.Equal(t, errors.StorageRecordDoesNotExist, st.Set("killme", 1))

	require.NoError(t, st.Put("killme", 1))
	require.NoError(t, st.Set("killme", 2))

	var v int
	require.NoError(t, st.Get("killme", &v))
	require.Equal(t, 2, v)
}

func TestLevelDBBackendRemove(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	require.Equal(t, errors.StorageRecordDoesNotExist, st.Remove("findme"))

	require.NoError(t, st.New("findme", "value"))
	require.NoError(t, st.Remove("findme"))

	exists, err := st.Has("findme")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLevelDBBackendTransaction(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	{ // discarded
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.True(t, ts.IsTransaction())
		require.NoError(t, ts.New("discarded", 1))
		require.NoError(t, ts.Discard())

		exists, err := st.Has("discarded")
		require.NoError(t, err)
		require.False(t, exists)
	}

	{ // committed
		ts, err := st.OpenTransaction()
		require.NoError(t, err)
		require.NoError(t, ts.New("committed", 1))

		_, err = ts.OpenTransaction()
		require.Error(t, err)

		require.NoError(t, ts.Commit())

		exists, err := st.Has("committed")
		require.NoError(t, err)
		require.True(t, exists)
	}

	require.Error(t, st.Commit())
	require.Error(t, st.Discard())
}

func TestLevelDBBackendSnapshot(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	require.NoError(t, st.New("before", 1))

	snapshot, release, err := NewSnapshot(st)
	require.NoError(t, err)
	defer release()

	require.NoError(t, st.New("after", 2))

	exists, err := snapshot.Has("before")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = snapshot.Has("after")
	require.NoError(t, err)
	require.False(t, exists)

	require.Error(t, snapshot.Put("readonly", 3))
}

func TestLevelDBBackendIterator(t *testing.T) {
	st := NewTestStorage()
	defer st.Close()

	prefix := "ordered-"
	for i := 0; i < 10; i++ {
		require.NoError(t, st.New(fmt.Sprintf("%s%02d", prefix, i), i))
	}
	require.NoError(t, st.New("other-00", 100))

	collect := func(option ListOptions) (values []int) {
		iterFunc, closeFunc := st.GetIterator(prefix, option)
		defer closeFunc()
		for {
			it, hasNext := iterFunc()
			if !hasNext {
				break
			}
			var v int
			require.NoError(t, json.Unmarshal(it.Value, &v))
			values = append(values, v)
		}
		return
	}

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, collect(nil))
	require.Equal(t, []int{9, 8, 7}, collect(NewDefaultListOptions(true, nil, 3)))
	require.Equal(t, []int{4, 5}, collect(NewDefaultListOptions(false, []byte(prefix+"03"), 2)))
	require.Equal(t, []int{2, 1, 0}, collect(NewDefaultListOptions(true, []byte(prefix+"03"), 0)))
}
