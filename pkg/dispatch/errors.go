package dispatch

import (
	"errors"

	"mercator-hq/meter/pkg/providers"
)

// ErrNoResponse wraps every provider failure returned by Query.
var ErrNoResponse = errors.New("failed to get response from LLM")

// Reasons a completed request was not recorded in the ledger.
const (
	ReasonUsageUnavailable   = "usage_unavailable"
	ReasonPricingUnavailable = "pricing_unavailable"
	ReasonInvalidUsage       = "invalid_usage"
)

// errorType classifies err for metrics and logs.
func errorType(err error) string {
	var (
		authErr    *providers.AuthError
		rateErr    *providers.RateLimitError
		timeoutErr *providers.TimeoutError
		parseErr   *providers.ParseError
		validErr   *providers.ValidationError
		configErr  *providers.ConfigError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &validErr):
		return "validation"
	case errors.As(err, &configErr):
		return "config"
	default:
		return "provider"
	}
}
