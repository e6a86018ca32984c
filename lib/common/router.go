package common

import (
	"mime"
	"net/http"

	"github.com/gorilla/mux"
)

// PostAndJSONMatcher matches every request but the POST ones whose body is
// not `application/json`.
func PostAndJSONMatcher(r *http.Request, rm *mux.RouteMatch) bool {
	if r.Method != http.MethodPost {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
