package governance

import (
	"fmt"
	"strconv"
	"strings"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/storage"
)

const (
	statePrefix   = "gv-st-"
	outcomePrefix = "gv-oc-"
)

func StateKey(address string) string {
	return fmt.Sprintf("%s%s", statePrefix, address)
}

func OutcomePrefix(address string) string {
	return fmt.Sprintf("%s%s-", outcomePrefix, address)
}

func OutcomeKey(address string, voteID uint64) string {
	return fmt.Sprintf("%s%020d", OutcomePrefix(address), voteID)
}

func HasState(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(StateKey(address))
}

// CreateState writes the storage of a newly deployed contract.
func CreateState(st *storage.LevelDBBackend, address string, v interface{}) error {
	return st.New(StateKey(address), v)
}

func LoadState(st *storage.LevelDBBackend, address string, v interface{}) error {
	err := st.Get(StateKey(address), v)
	if err == errors.StorageRecordDoesNotExist {
		return errors.ContractNotFound.Clone().SetData("contract", address)
	}
	return err
}

func SaveState(st *storage.LevelDBBackend, address string, v interface{}) error {
	return st.Set(StateKey(address), v)
}

// RecordOutcome archives the outcome of voteID. An outcome is written once
// and never replaced.
func RecordOutcome(st *storage.LevelDBBackend, address string, voteID uint64, outcome Outcome) error {
	err := st.New(OutcomeKey(address, voteID), outcome)
	if err == errors.StorageRecordAlreadyExists {
		return errors.OutcomeAlreadyRecorded
	}
	return err
}

func HasOutcome(st *storage.LevelDBBackend, address string, voteID uint64) (bool, error) {
	return st.Has(OutcomeKey(address, voteID))
}

func GetOutcome(st *storage.LevelDBBackend, address string, voteID uint64) (outcome Outcome, err error) {
	err = st.Get(OutcomeKey(address, voteID), &outcome)
	if err == errors.StorageRecordDoesNotExist {
		err = errors.InvalidOutcomeId
	}
	return
}

type IndexedOutcome struct {
	VoteID uint64 `json:"vote_id"`
	Outcome
}

func ListOutcomes(st *storage.LevelDBBackend, address string, options storage.ListOptions) ([]IndexedOutcome, error) {
	prefix := OutcomePrefix(address)
	iterFunc, closeFunc := st.GetIterator(prefix, options)
	defer closeFunc()

	var outcomes []IndexedOutcome
	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}

		voteID, err := strconv.ParseUint(strings.TrimPrefix(string(item.Key), prefix), 10, 64)
		if err != nil {
			return nil, errors.StorageCoreError.Clone().SetData("key", string(item.Key))
		}

		var o IndexedOutcome
		if err = common.DecodeJSONValue(item.Value, &o.Outcome); err != nil {
			return nil, err
		}
		o.VoteID = voteID
		outcomes = append(outcomes, o)
	}

	return outcomes, nil
}
