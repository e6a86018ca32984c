package httputils

import (
	"net/http"

	"boscoin.io/dao/lib/errors"
)

// ErrorsToStatus maps error codes to http status; unknown errors are 500.
var ErrorsToStatus = map[uint]int{
	100: http.StatusNotFound,
	101: http.StatusConflict,
	102: http.StatusInternalServerError,
	110: http.StatusNotFound,
	111: http.StatusConflict,
	112: http.StatusNotFound,
	113: http.StatusBadRequest,
	114: http.StatusBadRequest,
	115: http.StatusBadRequest,
	116: http.StatusBadRequest,
	117: http.StatusBadRequest,
	120: http.StatusForbidden,
	121: http.StatusConflict,
	122: http.StatusConflict,
	123: http.StatusConflict,
	124: http.StatusBadRequest,
	125: http.StatusConflict,
	126: http.StatusBadRequest,
	127: http.StatusNotFound,
	128: http.StatusConflict,
	129: http.StatusForbidden,
	130: http.StatusConflict,
	131: http.StatusConflict,
	132: http.StatusConflict,
	133: http.StatusConflict,
	134: http.StatusBadRequest,
	135: http.StatusBadRequest,
	140: http.StatusConflict,
	141: http.StatusForbidden,
	142: http.StatusConflict,
	143: http.StatusConflict,
	144: http.StatusConflict,
	150: http.StatusBadRequest,
	151: http.StatusUnsupportedMediaType,
}

func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if code, found := ErrorsToStatus[e.Code]; found {
			return code
		}
	}
	return http.StatusInternalServerError
}

// IsJSONContentType is true when the request body is declared as json.
// An empty Content-Type is accepted.
func IsJSONContentType(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return len(ct) < 1 || ct == "application/json" || ct == "application/json; charset=utf-8"
}
