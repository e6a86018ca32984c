package optout

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
)

const (
	DefaultVoteDelay           uint64 = 1
	DefaultVoteLength          uint64 = 10
	DefaultObjectionPercentage uint64 = 10
)

type Params struct {
	VoteDelay           uint64 `json:"vote_delay" yaml:"vote_delay"`
	VoteLength          uint64 `json:"vote_length" yaml:"vote_length"`
	ObjectionPercentage uint64 `json:"percentage_for_objection" yaml:"percentage_for_objection"`
}

func NewDefaultParams() Params {
	return Params{
		VoteDelay:           DefaultVoteDelay,
		VoteLength:          DefaultVoteLength,
		ObjectionPercentage: DefaultObjectionPercentage,
	}
}

func (p Params) Validate() error {
	if p.ObjectionPercentage > common.Scale {
		return errors.InvalidParameters.Clone().SetData("percentage_for_objection", p.ObjectionPercentage)
	}
	return nil
}
