package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"mercator-hq/meter/pkg/attachment"
	"mercator-hq/meter/pkg/dispatch"
	"mercator-hq/meter/pkg/providers"
)

// Error types returned in ErrorResponse.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeServerError    = "server_error"
	ErrorTypeBadGateway     = "bad_gateway"
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an error.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// classify maps a Query error to an HTTP status and error type.
func classify(err error) (int, string) {
	var (
		configErr  *providers.ConfigError
		timeoutErr *providers.TimeoutError
	)
	switch {
	case errors.As(err, &configErr), errors.Is(err, attachment.ErrEmptyImage):
		return http.StatusBadRequest, ErrorTypeInvalidRequest
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, ErrorTypeGatewayTimeout
	case errors.Is(err, dispatch.ErrNoResponse):
		return http.StatusBadGateway, ErrorTypeBadGateway
	default:
		return http.StatusBadRequest, ErrorTypeInvalidRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Message: message, Type: errType}})
}
