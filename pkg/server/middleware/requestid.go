package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/meter/pkg/telemetry/logging"
)

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID puts a request ID in the context and the response headers. A
// client-supplied X-Request-ID is kept; otherwise a UUID is generated.
//
// The ID is stored with logging.WithRequestID so every log line written with
// the request context carries it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
