// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the pipeline, provisioner and service adapters use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "json"})
//	p := agenttriage.New(svc, cfg, func(o *agenttriage.Options) { o.Logger = logger })
//
// Log output goes to stderr by default; stdout is reserved for the console
// transcript.
package logging
