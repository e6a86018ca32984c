package governance

import (
	"boscoin.io/dao/lib/common/observer"
	"boscoin.io/dao/lib/contract/context"
	"boscoin.io/dao/lib/metrics"
)

// ArchiveOutcome records the outcome of voteID for the executing contract.
// The outcome event is published once the call is committed.
func ArchiveOutcome(ctx *context.Context, voteID uint64, outcome PollOutcome, poll interface{}) error {
	o, err := NewOutcome(outcome, poll)
	if err != nil {
		return err
	}
	if err = RecordOutcome(ctx.Storage, ctx.Self, voteID, o); err != nil {
		return err
	}

	self := ctx.Self
	ctx.OnCommit(func() {
		log.Info("outcome recorded", "contract", self, "vote_id", voteID, "outcome", outcome)
		metrics.Governance.AddPollEnded(self, outcome.String())
		observer.ContractObserver.Trigger(observer.EventOutcome, observer.OutcomeEvent{
			Contract: self,
			VoteID:   voteID,
			Outcome:  outcome.String(),
		})
	})

	return nil
}
