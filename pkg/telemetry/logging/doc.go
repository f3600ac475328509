// Package logging provides structured logging on log/slog with credential
// redaction and context fields.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	if err != nil {
//	    return err
//	}
//	logger.SetDefault()
//
// After SetDefault, component loggers built with
// slog.Default().With("component", ...) go through the same handler.
//
// # Context Fields
//
// request_id, session, provider and model stored with WithRequestID,
// WithSession, WithProvider and WithModel are added to every record logged
// with a *Context method.
//
// # Redaction
//
// When RedactSecrets is set, messages and string attributes are scanned for
// OpenAI, Anthropic and Google API keys, bearer tokens and key query
// parameters. Attributes whose name looks like a credential (api_key,
// authorization, token, secret, password) are masked whatever their value.
// Errors are rendered to strings and scanned the same way.
package logging
