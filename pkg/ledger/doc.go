// Package ledger records the usage and cost of completed LLM requests.
//
// A RequestRecord captures one successful call: the response text, its
// normalized usage, its exact cost and how long the call took. Records are
// only built through NewRequestRecord, which rejects invalid data, and are
// immutable afterwards.
//
// A Tracker is the append-only ledger of records for the lifetime of the
// process. It is created once at startup and passed to the code that issues
// requests; there is no package-level instance. All methods are safe for
// concurrent use.
//
//	tracker := ledger.NewTracker()
//
//	rec, err := ledger.NewRequestRecord(ledger.RecordParams{
//		Provider: providers.TypeOpenAI,
//		Model:    "gpt-4o",
//		Content:  resp.Content,
//		Usage:    u,
//		Cost:     cost.Total,
//	})
//	if err != nil {
//		return err
//	}
//	_ = tracker.Track(rec)
//
//	fmt.Println(tracker.TotalCost(""))
//
// # Ordering
//
// Records are kept in insertion order. Every query that returns records
// preserves that order, globally and within a session.
package ledger
