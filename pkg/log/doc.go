// Package log provides a logging abstraction for feedship components.
//
// The Logger interface can be implemented by any logging library. A
// zerolog adapter is provided for real output and a no-op logger for
// tests and for library use where the caller supplies no logger.
package log
