package trampoline

import (
	"fmt"
	"runtime"
)

// fatalHook lets a test harness observe a ConfigurationFatal /
// DisplacementOverflow condition without actually entering the
// debug-break spin. Production code leaves it nil.
var fatalHook func(msg string)

// fatalf logs msg and then halts the calling goroutine in a spin loop:
// a failure here has already corrupted process state (an out-of-range
// displacement, an exhausted pool, no free region near the anchor) and
// there is no principled recovery. Spinning gives a debugger a chance
// to attach; it deliberately never returns.
func fatalf(l Logger, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.Logf("fatal: %s", msg)
	if fatalHook != nil {
		fatalHook(msg)
		return
	}
	for {
		runtime.Gosched()
	}
}
