package exi

import "go.uber.org/zap"

// Options configures a Codec.
type Options struct {
	// Logger receives failure reports at debug level. Nil uses Logger().
	Logger *zap.Logger
	// Metrics is optional.
	Metrics *Metrics
	// MaxDocumentSize bounds input and output documents in bytes, 0 for no bound.
	MaxDocumentSize int
}

// DefaultOptions returns the default codec configuration.
func DefaultOptions() Options {
	return Options{
		MaxDocumentSize: 64 << 10,
	}
}
