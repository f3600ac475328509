// Package openai implements the adapter for OpenAI-compatible chat APIs.
//
// One adapter serves four provider types on top of
// github.com/sashabaranov/go-openai:
//
//   - openai: api.openai.com (or any BaseURL)
//   - azure: Azure OpenAI deployments, addressed by model name, with an
//     api-version query parameter (default 2024-08-01-preview)
//   - deepseek: DeepSeek's OpenAI-compatible endpoint
//   - local: self-hosted OpenAI-compatible servers; no API key is required
//
// # Basic Usage
//
//	provider, err := openai.NewProvider(providers.ProviderConfig{
//	    Name:    "deepseek",
//	    Type:    providers.TypeDeepSeek,
//	    BaseURL: "https://api.deepseek.com/v1",
//	    APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
// # Usage reporting
//
// Responses expose their usage block as a usage.Source. Cached prompt
// tokens come from prompt_tokens_details.cached_tokens and reasoning tokens
// from completion_tokens_details.reasoning_tokens. A missing or all-zero
// usage block leaves CompletionResponse.Usage nil.
//
// # Images
//
// A message with an image is sent as a text part plus an image_url part
// holding a base64 data URL.
package openai
