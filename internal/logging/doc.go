// Package logging builds the slog loggers used across the daemon and CLI.
//
// Loggers are constructed once in main from configuration and passed down
// explicitly; there is no package-level logger. Console output uses a compact
// text handler, JSON output is available for log shippers, and an optional
// file sink under log_dir captures both. Attr helpers keep call sites terse
// and field names consistent across components.
package logging
