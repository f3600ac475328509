// Package report periodically logs a summary of the ledger while meter
// serve is running.
package report
