package errors

// storage
var (
	StorageRecordDoesNotExist  = NewError(100, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(101, "record already exists in storage")
	StorageCoreError           = NewError(102, "storage error")
)

// contract runtime
var (
	ContractNotFound       = NewError(110, "contract not found")
	ContractAlreadyExists  = NewError(111, "contract already exists")
	EntrypointNotFound     = NewError(112, "entrypoint not found")
	InvalidPayload         = NewError(113, "invalid payload")
	InsufficientBalance    = NewError(114, "insufficient balance")
	InvalidAmount          = NewError(115, "invalid amount")
	InvalidAddress         = NewError(116, "invalid address")
	OperationLimitExceeded = NewError(117, "too many operations in one group")
)

// governance
var (
	Unauthorized                = NewError(120, "sender is not authorized")
	AlreadyRegistered           = NewError(121, "address already registered")
	VoteInProgress              = NewError(122, "vote already in progress")
	NoVoteOpen                  = NewError(123, "no vote open")
	InvalidVoteId               = NewError(124, "invalid vote id")
	AlreadyVoted                = NewError(125, "address already voted")
	InvalidVoteValue            = NewError(126, "invalid vote value")
	InvalidOutcomeId            = NewError(127, "invalid outcome id")
	OutcomeAlreadyRecorded      = NewError(128, "outcome already recorded")
	InvalidVotingStrategy       = NewError(129, "callback sender is not the registered voting strategy")
	VotingWindowClosed          = NewError(130, "voting window is not open")
	VotingNotEnded              = NewError(131, "voting period has not ended")
	PollLeaderNotRegistered     = NewError(132, "poll leader is not registered")
	Phase2ContractNotRegistered = NewError(133, "phase 2 contract is not registered")
	InvalidParameters           = NewError(134, "invalid governance parameters")
	TallyOverflow               = NewError(135, "vote weight overflows the tally")
)

// ledger
var (
	BalanceInconsistency = NewError(140, "voting power checkpoints are inconsistent")
	NoVotingPower        = NewError(141, "address has no voting power")
	ProposalInProgress   = NewError(142, "proposal already in progress")
	NoProposal           = NewError(143, "no proposal in progress")
	EngineNotRegistered  = NewError(144, "voting engine is not registered")
)

// api
var (
	BadRequestParameter = NewError(150, "bad request parameter")
	ContentTypeNotJSON  = NewError(151, "`Content-Type` must be 'application/json'")
)

// scenario
var (
	InvalidScenario       = NewError(160, "invalid scenario")
	ScenarioStepFailed    = NewError(161, "scenario step failed")
	UnexpectedStepSuccess = NewError(162, "scenario step was expected to fail")
)
