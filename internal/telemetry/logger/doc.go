// Package logger provides structured logging for MintVault.
//
// It wraps log/slog with JSON output, a dynamically adjustable global
// level, request ID propagation through context, and redaction of
// secret-bearing fields (snapshot passphrases and the like).
package logger
