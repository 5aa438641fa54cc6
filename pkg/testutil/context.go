package testutil

import (
	"net/http"

	"patientdir/pkg/requestcontext"
)

// WithRequestID adds a request ID to the request context.
// This simulates what the request id middleware does for inbound requests.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
