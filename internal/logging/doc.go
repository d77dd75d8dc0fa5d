// Package logging provides concrete implementations of the filer.Logger interface.
//
// Available implementations:
//   - ZapLogger: Structured output through a zap.SugaredLogger
//   - NullLogger: Discards all messages (useful for testing)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
