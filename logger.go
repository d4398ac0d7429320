package trampoline

import (
	"log"
	"os"
)

// Logger is the seam the host process's own logging facility plugs
// into. The trampoline package never owns a logger; it only ever
// writes diagnostic strings into one.
type Logger interface {
	Logf(format string, args ...interface{})
}

type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Logf(format string, args ...interface{}) {
	s.l.Printf(format, args...)
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

var defaultLogger Logger = stdLogger{l: log.New(os.Stderr, "trampoline: ", log.LstdFlags)}

var isDebug = false

// SetDebug toggles the extra instruction-level tracing the Patcher
// emits before it clobbers a patch site. Off by default; mirrors the
// debug switch the teacher exposes for its own hook path.
func SetDebug(enabled bool) {
	isDebug = enabled
}

func debugf(l Logger, format string, args ...interface{}) {
	if isDebug {
		l.Logf(format, args...)
	}
}
