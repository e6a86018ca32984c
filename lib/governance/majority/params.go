package majority

import (
	"boscoin.io/dao/lib/common"
	"boscoin.io/dao/lib/errors"
	"boscoin.io/dao/lib/governance"
)

const (
	DefaultVoteDelay               uint64 = 1
	DefaultVoteLength              uint64 = 10
	DefaultSupermajorityPercentage uint64 = 80
	DefaultFixedQuorumPercentage   uint64 = 25
	DefaultQuorum                  uint64 = 2000
	DefaultQuorumLower             uint64 = 1
	DefaultQuorumUpper             uint64 = 100000
)

type Params struct {
	VoteDelay               uint64               `json:"vote_delay" yaml:"vote_delay"`
	VoteLength              uint64               `json:"vote_length" yaml:"vote_length"`
	SupermajorityPercentage uint64               `json:"supermajority_percentage" yaml:"supermajority_percentage"`
	FixedQuorum             bool                 `json:"fixed_quorum" yaml:"fixed_quorum"`
	FixedQuorumPercentage   uint64               `json:"fixed_quorum_percentage" yaml:"fixed_quorum_percentage"`
	QuorumCap               governance.QuorumCap `json:"quorum_cap" yaml:"quorum_cap"`
}

func NewDefaultParams() Params {
	return Params{
		VoteDelay:               DefaultVoteDelay,
		VoteLength:              DefaultVoteLength,
		SupermajorityPercentage: DefaultSupermajorityPercentage,
		FixedQuorumPercentage:   DefaultFixedQuorumPercentage,
		QuorumCap: governance.QuorumCap{
			Lower: DefaultQuorumLower,
			Upper: DefaultQuorumUpper,
		},
	}
}

func (p Params) Validate() error {
	if p.SupermajorityPercentage > common.Scale {
		return errors.InvalidParameters.Clone().SetData("supermajority_percentage", p.SupermajorityPercentage)
	}
	if p.FixedQuorumPercentage > common.Scale {
		return errors.InvalidParameters.Clone().SetData("fixed_quorum_percentage", p.FixedQuorumPercentage)
	}
	if p.QuorumCap.Lower > p.QuorumCap.Upper {
		return errors.InvalidParameters.Clone().SetData("quorum_cap", p.QuorumCap)
	}
	return nil
}
