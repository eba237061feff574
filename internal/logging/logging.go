// Package logging provides the structured logger shared by the ledger
// and HTTP layers, built on go.uber.org/zap the way the rest of this
// exercise's example pack uses it for node/share/peer events.
package logging

import "go.uber.org/zap"

// Logger is a thin alias so callers don't need to import zap directly.
type Logger = zap.SugaredLogger

// New builds a production-style JSON logger. debug enables debug-level
// output.
func New(debug bool) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}

// Nop returns a logger that discards everything, for tests.
func Nop() *Logger {
	return zap.NewNop().Sugar()
}
