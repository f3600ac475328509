// Package anthropic implements the Anthropic provider adapter.
//
// The adapter speaks Anthropic's Messages API (version 2023-06-01) over the
// shared providers.HTTPProvider client.
//
// # Basic Usage
//
//	provider, err := anthropic.NewProvider(providers.ProviderConfig{
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model:    "claude-3-5-sonnet-20241022",
//	    Messages: []providers.Message{{Role: "user", Content: "Hello!"}},
//	})
//
// # Request Transformation
//
//   - System messages are moved to the "system" field
//   - Messages must alternate between user and assistant, starting with user
//   - max_tokens is required by the API and defaults to 1000
//   - Image attachments become base64 image blocks ahead of the text
//
// # Usage
//
// Anthropic reports input_tokens without cache activity. The normalized
// prompt count adds cache_creation_input_tokens and cache_read_input_tokens,
// and cache reads are reported as cached prompt tokens.
package anthropic
