// Package tokens estimates token counts for completion requests before they
// are sent.
//
// Estimates are character based, with characters-per-token ratios keyed by
// model name or model prefix (the longest matching prefix wins):
//
//   - GPT and o-series: ~4 characters per token
//   - Claude: ~3.5 characters per token
//   - DeepSeek: ~3.8 characters per token
//
// Images count a flat ImageTokens each.
//
// Estimates are used to preview a cost with `meter pricing cost --text`.
// The ledger only ever records provider-reported usage.
//
//	estimator := tokens.NewSimpleEstimator(nil)
//	est, err := estimator.EstimateRequest(req)
//	if err != nil {
//		return err
//	}
//	u, err := usage.New(est.PromptTokens, est.EstimatedCompletionTokens)
package tokens
