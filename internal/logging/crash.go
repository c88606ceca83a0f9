package logging

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// RecoverPanic is deferred at the process entry point and at the top of every
// background goroutine. It logs the panic with full diagnostic context and
// then re-panics so the runtime's default crash behavior still applies.
func RecoverPanic(where string) {
	if r := recover(); r != nil {
		ReportPanic(where, r, debug.Stack())
		panic(r)
	}
}

// ReportPanic writes a crash report for a recovered panic value.
func ReportPanic(where string, value any, stack []byte) {
	Logger().Error("CRASH: uncaught panic",
		slog.String("goroutine", where),
		slog.String("type", fmt.Sprintf("%T", value)),
		slog.String("message", fmt.Sprint(value)),
		slog.String("stack", string(stack)),
	)
}
