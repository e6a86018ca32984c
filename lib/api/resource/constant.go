package resource

const (
	APIVersionV1 = "/v1"

	URLInfo     = APIVersionV1 + "/"
	URLCalls    = APIVersionV1 + "/calls"
	URLLevel    = APIVersionV1 + "/level"
	URLContract = APIVersionV1 + "/contracts/{address}"
	URLOutcomes = APIVersionV1 + "/contracts/{address}/outcomes"
	URLOutcome  = APIVersionV1 + "/contracts/{address}/outcomes/{id}"
)
