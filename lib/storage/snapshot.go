package storage

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	leveldbOpt "github.com/syndtr/goleveldb/leveldb/opt"
)

var errSnapshotReadOnly = setLevelDBCoreError(fmt.Errorf("snapshot is read-only"))

type Snapshot struct {
	*leveldb.Snapshot
}

// NewSnapshot returns a read-only backend pinned to the current state of st,
// used by read views that must not block writers.
func NewSnapshot(st *LevelDBBackend) (*LevelDBBackend, func(), error) {
	snapshot, err := st.DB.GetSnapshot()
	if err != nil {
		return nil, nil, setLevelDBCoreError(err)
	}

	return &LevelDBBackend{DB: st.DB, Core: &Snapshot{Snapshot: snapshot}}, snapshot.Release, nil
}

func (s *Snapshot) Put([]byte, []byte, *leveldbOpt.WriteOptions) error {
	return errSnapshotReadOnly
}

func (s *Snapshot) Write(*leveldb.Batch, *leveldbOpt.WriteOptions) error {
	return errSnapshotReadOnly
}

func (s *Snapshot) Delete([]byte, *leveldbOpt.WriteOptions) error {
	return errSnapshotReadOnly
}
