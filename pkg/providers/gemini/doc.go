// Package gemini implements the Google Gemini provider adapter.
//
// Requests go to the generateContent endpoint of the Generative Language API:
//
//	POST {base}/v1beta/models/{model}:generateContent
//
// The API key is sent in the x-goog-api-key header so it never appears in
// request URLs or logs.
//
// Gemini responses may omit usageMetadata. In that case the normalized
// response carries a nil Usage and the request is answered but not billed.
// When present, thoughtsTokenCount is reported as reasoning tokens and is
// included in the completion count.
package gemini
