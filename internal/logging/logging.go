// Package logging provides the leveled, structured logger threaded
// through the engine. It replaces the teacher's debug-bool + log.Printf
// idiom with go.uber.org/zap, kept terse the way the teacher's own log
// lines are terse.
package logging

import (
	"go.uber.org/zap"
)

// New builds a sugared logger. debug selects development-mode output
// (human-readable, debug level); production mode is JSON at info level.
func New(debug bool) *zap.SugaredLogger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		// Config built from zap's own presets; this cannot fail in
		// practice, but fall back to a no-op logger rather than panic.
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// Nop returns a logger that discards everything, for tests.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
