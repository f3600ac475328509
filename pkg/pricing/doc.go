// Package pricing holds the per-model price table used for cost attribution.
//
// Prices are USD per UnitSize tokens (one million unless stated otherwise) and
// are kept as exact decimals. A table is built once at startup, from the
// embedded defaults and an optional override file, and is never mutated
// afterwards.
//
// # Matching
//
// Lookup resolves a (provider, model) pair in three steps:
//
//  1. an entry whose model equals the requested model;
//  2. the entry with the longest model string that prefixes the requested
//     model ("claude-3-5-sonnet" matches "claude-3-5-sonnet-20241022");
//  3. the provider's "default" entry, reported as MatchDefault so callers can
//     log the fallback.
//
// If none applies, Lookup returns ErrUnavailable. It never returns a zero
// price in place of a missing one.
package pricing
