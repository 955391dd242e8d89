// Package log provides structured logging for pl-flow components.
//
// Construct a Logger with NewLogger and pass it down explicitly; there is no
// package-level default. Components tag their output with a component field:
//
//	logger := log.NewLogger(log.WithLevel(log.InfoLevel))
//	logger = logger.With(log.Component("runner"))
//	logger.Info("task dispatched", log.Str("identity", id))
package log
