package context

import (
	"fmt"

	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/storage"
)

const balancePrefix = "ac-ba-"

func balanceKey(address string) string {
	return fmt.Sprintf("%s%s", balancePrefix, address)
}

func GetBalance(st *storage.LevelDBBackend, address string) (amount common.Amount, err error) {
	var exists bool
	if exists, err = st.Has(balanceKey(address)); err != nil || !exists {
		return
	}

	err = st.Get(balanceKey(address), &amount)
	return
}

func SetBalance(st *storage.LevelDBBackend, address string, amount common.Amount) error {
	return st.Put(balanceKey(address), amount)
}

func Deposit(st *storage.LevelDBBackend, address string, amount common.Amount) error {
	if len(address) < 1 {
		return errors.InvalidAddress
	}

	balance, err := GetBalance(st, address)
	if err != nil {
		return err
	}
	if balance, err = balance.Add(amount); err != nil {
		return err
	}
	return SetBalance(st, address, balance)
}

func Transfer(st *storage.LevelDBBackend, from, to string, amount common.Amount) error {
	if len(to) < 1 {
		return errors.InvalidAddress
	}

	balance, err := GetBalance(st, from)
	if err != nil {
		return err
	}
	if balance, err = balance.Sub(amount); err != nil {
		return err
	}
	if err = SetBalance(st, from, balance); err != nil {
		return err
	}

	return Deposit(st, to, amount)
}
