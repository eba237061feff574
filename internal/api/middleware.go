package api

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader is echoed back so a caller can correlate a request with
// the matching log line, the way the teacher stamped a uuid onto every
// created user/wallet record.
const requestIDHeader = "X-Request-Id"

// withRequestID assigns a fresh request id to every request, sets it as a
// response header, and logs the request's arrival tagged with it before
// handing it on.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set(requestIDHeader, id)
		s.Log.Infow("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
