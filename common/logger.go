// Basic leveled logging for the specer tool.  Messages go to stderr; the level is adjusted by the
// command line layer (-v lowers it to debug, -q raises it to error).

package common

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel indicates the level of logging that should be done.

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// Implementations of this must be thread-safe.
type Logger interface {
	// Print only messages at level l or above
	SetLevel(l LogLevel)

	// Lower log level at least to l
	LowerLevelTo(l LogLevel)

	// Raise log level at least to l
	RaiseLevelTo(l LogLevel)

	// Print on this stream, if installed
	SetStderr(w io.Writer)

	// Print at various levels.  None of these must exit or panic, the name indicates the log level
	// only.
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
}

type standardLogger struct {
	sync.Mutex
	level  LogLevel
	stderr io.Writer
}

// MT: Constant after initialization, thread-safe.
var Log Logger = &standardLogger{
	level:  LogLevelInfo,
	stderr: os.Stderr,
}

func (sl *standardLogger) SetLevel(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()

	sl.level = l
}

func (sl *standardLogger) LowerLevelTo(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()

	if sl.level > l {
		sl.level = l
	}
}

func (sl *standardLogger) RaiseLevelTo(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()

	if sl.level < l {
		sl.level = l
	}
}

func (sl *standardLogger) SetStderr(stderr io.Writer) {
	sl.Lock()
	defer sl.Unlock()

	sl.stderr = stderr
}

func (sl *standardLogger) logf(l LogLevel, prefix, format string, args ...any) {
	sl.Lock()
	defer sl.Unlock()

	if sl.level <= l && sl.stderr != nil {
		fmt.Fprintln(sl.stderr, prefix+fmt.Sprintf(format, args...))
	}
}

func (sl *standardLogger) Debugf(format string, args ...any) {
	sl.logf(LogLevelDebug, "debug: ", format, args...)
}

func (sl *standardLogger) Infof(format string, args ...any) {
	sl.logf(LogLevelInfo, "", format, args...)
}

func (sl *standardLogger) Warningf(format string, args ...any) {
	sl.logf(LogLevelWarning, "warning: ", format, args...)
}

func (sl *standardLogger) Errorf(format string, args ...any) {
	sl.logf(LogLevelError, "error: ", format, args...)
}
