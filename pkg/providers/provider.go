package providers

import "context"

// Provider is the interface every LLM provider adapter implements.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must return promptly once the context is done.
//
// Example usage:
//
//	provider, err := providerfactory.NewProvider(cfg)
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model:    "gpt-4o",
//	    Messages: []providers.Message{{Role: providers.RoleUser, Content: "Hello!"}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends a single, non-streaming completion request.
	// The request is transformed to the provider format and the response is
	// normalized back. Failed requests are returned as typed errors and are
	// never retried.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// GetName returns the provider's configured name.
	GetName() string

	// GetType returns the provider's type.
	GetType() Type

	// Close releases idle connections. The provider must not be used afterwards.
	Close() error
}
