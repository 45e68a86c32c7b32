// Package logger provides structured logging for the analytics pipeline,
// built on zerolog.
//
// A single Logger interface is shared across the codebase so that packages
// never depend on zerolog directly. Loggers are immutable; WithField and
// WithFields return derived loggers carrying additional context:
//
//	log := logger.GetLogger().WithField("handle", handle)
//	log.Info("starting analytics run")
//
// Initialize configures the global logger from config.LoggingConfig and
// should be called once at startup. GetLogger falls back to a default
// info-level console logger when Initialize has not run, which keeps tests
// and library consumers working without setup.
package logger
