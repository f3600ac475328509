// Package usage defines the normalized token accounting for a single LLM call.
//
// Every provider reports usage in its own shape (prompt_tokens vs input_tokens,
// optional reasoning or cache counters, or nothing at all). Provider adapters
// expose their native usage value as a Source, and Normalize turns it into a
// Record that the cost calculator and the ledger understand.
//
// # Usage unavailable
//
// Some responses carry no usage block. Normalize reports ErrUnavailable for
// them instead of guessing a value; callers skip cost attribution:
//
//	rec, err := usage.Normalize(resp.Usage)
//	if errors.Is(err, usage.ErrUnavailable) {
//		// return the text, record nothing
//	}
package usage
