// Package logging provides structured logging for previewd built on
// go.uber.org/zap.
//
// Production gets JSON output at info level; development gets colorized
// console output at debug level. Subsystems tag themselves with
// Logger.Component so transcript noise stays attributable.
package logging
