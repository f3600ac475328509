// Package dispatch sends prompts to LLM providers and records what they cost.
//
// A Dispatcher resolves the provider and model, shapes the request for the
// model (reasoning models on the OpenAI family get a reasoning effort instead
// of a temperature), calls the provider under a timeout, normalizes the
// reported usage, prices it and appends a RequestRecord to the ledger.
//
//	d := dispatch.New(dispatch.ConfigFrom(cfg), manager, costs.NewCalculator(table), tracker,
//		dispatch.WithMetrics(collector))
//	result, err := d.Query(ctx, dispatch.Query{Prompt: "Hello", Provider: "gemini"})
//
// Tracking never fails a query: when usage is missing or the model cannot be
// priced the response is returned with Tracked false and UntrackedReason set.
package dispatch
