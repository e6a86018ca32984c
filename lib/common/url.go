package common

import (
	"strings"

	"boscoin.io/dao/lib/errors"
)

var (
	TrueQueryStringValue  = []string{"true", "yes", "1"}
	FalseQueryStringValue = []string{"false", "no", "0"}
)

// ParseBoolQueryString reads a boolean query value; 'true', 'yes' and '1'
// are true, 'false', 'no' and '0' are false, anything else is
// `BadRequestParameter`.
func ParseBoolQueryString(v string) (bool, error) {
	v = strings.ToLower(v)
	for _, s := range TrueQueryStringValue {
		if s == v {
			return true, nil
		}
	}
	for _, s := range FalseQueryStringValue {
		if s == v {
			return false, nil
		}
	}

	return false, errors.BadRequestParameter
}
