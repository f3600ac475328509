// Package server is the HTTP API of meter serve.
//
// Every request shares one ledger, so usage and cost accumulate across
// clients for the lifetime of the process.
//
// # Routes
//
//   - POST /v1/query: send a prompt; the body is a QueryRequest
//   - GET /v1/usage?session_id=: ledger summary and per-day breakdown
//   - GET /v1/records?session_id=&provider=&model=&format=json|csv
//   - GET /v1/sessions
//   - GET /health, /ready, /version
//   - GET /metrics (when metrics are enabled)
//
// Provider failures are answered with 502 (504 on timeout), invalid input and
// configuration errors with 400. Errors use the body
//
//	{"error": {"message": "...", "type": "bad_gateway"}}
//
// # Lifecycle
//
// Start blocks until its context is cancelled or the process receives
// SIGINT or SIGTERM. Shutdown drains in-flight requests for up to
// server.shutdown_timeout and then writes ledger.export.path when set.
package server
