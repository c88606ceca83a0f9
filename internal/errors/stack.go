package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// maxStackDepth bounds how many frames a SystemError records.
const maxStackDepth = 32

// Frame is one call site recorded when a SystemError was created.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

// callers records the stack above its caller's caller, dropping runtime
// and testing frames.
func callers(skip int) []Frame {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	out := make([]Frame, 0, n)
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") && !strings.HasPrefix(f.Function, "testing.") {
			out = append(out, Frame{Function: f.Function, File: f.File, Line: f.Line})
		}
		if !more {
			break
		}
	}
	return out
}

// StackOf returns the frames recorded by the outermost SystemError in err.
func StackOf(err error) []Frame {
	if se, ok := AsSystemError(err); ok {
		return se.Stack
	}
	return nil
}

// FormatStack renders frames one per line for --debug output.
func FormatStack(frames []Frame) string {
	var sb strings.Builder
	for i, f := range frames {
		fmt.Fprintf(&sb, "  %2d. %s\n      %s:%d\n", i+1, f.Function, f.File, f.Line)
	}
	return sb.String()
}
