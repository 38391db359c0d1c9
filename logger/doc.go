// Package logger provides structured logging for the sequence engine
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The engine itself logs
// only at debug level, so a default info-level logger stays silent.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipeline")
//	log.Debug("snapshot materialized", logger.Fields("size", 42))
package logger
