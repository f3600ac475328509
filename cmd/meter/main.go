// Meter is a unified LLM client with per-request usage and cost accounting.
//
// It sends prompts to OpenAI-compatible providers (OpenAI, Azure OpenAI,
// DeepSeek, local servers), Anthropic and Google Gemini, prices the reported
// token usage, and keeps a ledger of every tracked request.
//
// Usage:
//
//	# Send a prompt with the default provider
//	meter query --prompt "Hello"
//
//	# Pick a provider and model, attach an image, show the cost
//	meter query --provider gemini --image cat.png --prompt "What is this?" --usage
//
//	# Serve the HTTP API with Prometheus metrics
//	meter serve --config meter.yaml
//
//	# Inspect the pricing table
//	meter pricing list --provider anthropic
//	meter pricing cost --provider openai --model gpt-4o --prompt-tokens 1000 --completion-tokens 500
//
//	# Show version information
//	meter version
package main

func main() {
	Execute()
}
