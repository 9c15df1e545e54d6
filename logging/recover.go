package logging

import (
	"fmt"
	"os"
	"runtime"
)

// stackTraceBufferSize is the buffer size for stack trace collection.
const stackTraceBufferSize = 4096

// Recover adapts panics at the collaborator boundary into captured
// warnings. Deferred around calls into external code; if the Logger is nil
// it falls back to stderr so the fault is still recorded.
//
// Only the panic value goes through the interceptor: stack frames carry
// the framework module path and would defeat origin classification. The
// stack is kept on the primary sink at debug level.
func Recover(boundary string, l *Logger) {
	if r := recover(); r != nil {
		buf := make([]byte, stackTraceBufferSize)
		n := runtime.Stack(buf, false)

		if l == nil {
			fmt.Fprintf(os.Stderr, "PANIC at %s boundary (no logger): %v\n%s\n", boundary, r, buf[:n])
			return
		}
		l.CaptureWarning(fmt.Sprintf("panic at %s boundary: %v", boundary, r))
		l.primary.Debugw("Panic stack", "boundary", boundary, "stack", string(buf[:n]))
	}
}
