// Package middleware provides the HTTP middleware of meter serve: request
// IDs, panic recovery, access logging and request body limits.
//
//	handler := middleware.Chain(mux,
//		middleware.Recovery,
//		middleware.RequestID,
//		middleware.Logging,
//		middleware.BodyLimit(cfg.MaxBodyBytes),
//	)
package middleware
