// Execution of the built runcpu command.
//
// One external command per invocation, consumed synchronously.  When capture is on, combined
// stdout/stderr is read line by line on the calling goroutine so a progress callback can track the
// currently running benchmark; there is no other concurrency here.

package runcpu

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"specer/common"
	"specer/process"
)

// ExitError surfaces a nonzero exit from runcpu with the child's code preserved; we never try to
// interpret why the external tool failed.

type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	if e.Code == 130 {
		return "Operation cancelled by user"
	}
	return fmt.Sprintf("Command failed with exit code %d", e.Code)
}

type ExecOptions struct {
	// Capture the combined output and return it; otherwise the child inherits our streams.
	Capture bool

	// With Capture, also echo every line as it arrives (verbose mode).
	Echo io.Writer

	// With Capture, called whenever the detected current benchmark changes.
	Progress func(benchmark string)

	// Pre-written affirmative answer for children that may prompt interactively.
	AutoConfirm bool

	Affinity Affinity
}

// Execute runs the command, applying affinity wrapping first.  The captured output is returned
// even on failure; a nonzero exit is an *ExitError.

func Execute(cmd []string, opts ExecOptions) (string, error) {
	final := Wrap(cmd, opts.Affinity)
	if len(final) != len(cmd) {
		common.Log.Debugf("Applied affinity wrapper: %s", strings.Join(final[:len(final)-len(cmd)], " "))
	}
	common.Log.Debugf("Executing: %s", strings.Join(final, " "))

	stdin := ""
	if opts.AutoConfirm {
		stdin = "yes\n"
	}

	var output string
	var code int
	var err error
	if opts.Capture {
		current := ""
		onLine := func(line string) {
			if opts.Progress == nil {
				return
			}
			if bench := CurrentBenchmark(line); bench != "" && bench != current {
				current = bench
				opts.Progress(bench)
			}
		}
		output, code, err = process.StreamSubprocess(final, process.StreamOptions{
			Stdin:  stdin,
			Echo:   opts.Echo,
			OnLine: onLine,
		})
	} else {
		code, err = process.RunInteractive(final)
	}
	if err != nil {
		return output, err
	}
	if code != 0 {
		return output, &ExitError{Code: code}
	}
	return output, nil
}

// Patterns that reveal which benchmark runcpu is currently working on.  Tried in order, first
// match wins.
var benchmarkLineRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Running.*?(\d{3}\.\w+(?:_[rs])?)`),
	regexp.MustCompile(`(?i)Building.*?(\d{3}\.\w+(?:_[rs])?)`),
	regexp.MustCompile(`(?i)(\d{3}\.\w+(?:_[rs])?)\s*(?:base|peak)`),
	regexp.MustCompile(`(?i)runcpu.*?(\d{3}\.\w+(?:_[rs])?)`),
	regexp.MustCompile(`(?i)specinvoke.*?(\d{3}\.\w+(?:_[rs])?)`),
	regexp.MustCompile(`(?i)^(\d{3}\.\w+(?:_[rs])?):\s`),
}

// CurrentBenchmark extracts a benchmark id from a line of runcpu output, or "".

func CurrentBenchmark(line string) string {
	for _, re := range benchmarkLineRes {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}
