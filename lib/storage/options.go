package storage

// ListOptions drives GetIterator. A nil cursor starts from the first (or,
// when reversed, the last) key of the prefix; a zero limit reads everything.
type ListOptions interface {
	Reverse() bool
	Cursor() []byte
	Limit() uint64
}

type DefaultListOptions struct {
	reverse bool
	cursor  []byte
	limit   uint64
}

func NewDefaultListOptions(reverse bool, cursor []byte, limit uint64) *DefaultListOptions {
	return &DefaultListOptions{
		reverse: reverse,
		cursor:  cursor,
		limit:   limit,
	}
}

func (o DefaultListOptions) Reverse() bool  { return o.reverse }
func (o DefaultListOptions) Cursor() []byte { return o.cursor }
func (o DefaultListOptions) Limit() uint64  { return o.limit }
