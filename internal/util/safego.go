package util

import (
	"runtime/debug"

	"github.com/scaleaudit/scaleaudit/internal/logging"
)

// SafeGoWithName runs fn in a goroutine with panic recovery and logging,
// tagged with a descriptive name. Use in place of bare `go` statements so a
// panic in a background loop is logged with its stack instead of crashing
// the process.
func SafeGoWithName(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error("goroutine panic recovered",
					"goroutine", name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
