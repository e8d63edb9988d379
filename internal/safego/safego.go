// Package safego provides a panic-recovering goroutine launcher for background work.
package safego

import "log/slog"

// Go launches fn in a new goroutine identified by name. A panic inside fn is
// recovered and logged instead of crashing the process, so a failing background
// task (metrics listener, cleanup loop) cannot take the server down; the name
// makes the log entry attributable without a stack trace.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered panic in background goroutine", "goroutine", name, "panic", r)
			}
		}()
		fn()
	}()
}
