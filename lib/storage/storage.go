// Package storage keeps contract state in leveldb. Values are stored as
// json under string keys; every write of a call runs inside one leveldb
// transaction.
package storage

// IterItem is one record yielded by GetIterator; N counts the records read
// so far, starting at 1.
type IterItem struct {
	N     int64
	Key   []byte
	Value []byte
}
