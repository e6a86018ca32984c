package httpcache

import (
	"net/http"
	"time"
)

type Adapter interface {
	Get(key string) (*Response, bool)
	// Set keeps response until expiration; a zero expiration never expires.
	Set(key string, response *Response, expiration time.Time)
	Remove(key string)
}

// Response is a recorded http response.
type Response struct {
	Value      []byte
	StatusCode int
	Header     http.Header
	Expiration time.Time
}

func (r *Response) Expired(now time.Time) bool {
	return !r.Expiration.IsZero() && !r.Expiration.After(now)
}

func (r *Response) write(w http.ResponseWriter) {
	for k, v := range r.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(r.StatusCode)
	w.Write(r.Value)
}
