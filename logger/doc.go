// Package logger provides structured logging for sttkit using zerolog.
//
// Every speech provider receives a *Logger at construction time instead of
// reaching for a package-level logger. Use Get to obtain a component-scoped
// logger from the global one:
//
//	log := logger.Get("stt.google")
//	log.Warn("nothing transcribed", logger.Fields(logger.FieldProvider, "google"))
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
