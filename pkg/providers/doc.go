// Package providers defines the provider-agnostic types shared by the LLM
// adapters.
//
// # Overview
//
// A Provider sends one non-streaming completion request and returns a
// normalized CompletionResponse. The package holds:
//
//  1. Type - the closed set of supported providers (openai, azure, deepseek,
//     anthropic, gemini, local), validated with ParseType before any call
//  2. Provider - the adapter interface
//  3. HTTPProvider - the shared HTTP client (pooling, timeout, status mapping)
//  4. Typed errors - AuthError, RateLimitError, TimeoutError, ParseError,
//     ProviderError, ConfigError, ValidationError
//
// Adapters live in sub-packages (openai, anthropic, gemini) and are created
// through pkg/providerfactory.
//
// # Usage reporting
//
// CompletionResponse.Usage carries the provider-native usage block as a
// usage.Source. It is nil when the provider reported no usage; callers must
// treat that as "usage unavailable", never as zero tokens.
//
// # Error Handling
//
// Requests are never retried. IsRetryable classifies an error for callers
// that want to retry on their own:
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    var authErr *providers.AuthError
//	    if errors.As(err, &authErr) {
//	        // bad credentials
//	    }
//	    if providers.IsRetryable(err) {
//	        // timeout, rate limit or 5xx
//	    }
//	}
package providers
