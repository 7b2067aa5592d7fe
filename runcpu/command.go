// Assembly of the runcpu argument vector.  Pure code, no I/O: the executable path is resolved by
// the caller (Path) and passed in, so the builder itself is trivially testable.

package runcpu

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Request carries everything that influences the argument vector.  Zero values mean "not
// requested" throughout: empty strings omit the flag, zero counts omit the flag.

type Request struct {
	Action     string // build, run, setup, clean, or update
	Benchmarks []string
	Config     string
	Tune       string
	Size       string
	Copies     int
	Threads    int
	Iterations int
	Reportable   bool
	NoReportable bool

	// "" picks the fast default (rsf,pdf); "all" suppresses the flag so runcpu produces its full
	// set; anything else is passed through as a csv list.
	OutputFormats string

	Verbose      bool
	Rebuild      bool
	ParallelTest int
	IgnoreErrors bool
}

// Path resolves the runcpu executable: under the SPEC root when one is given (and it must exist
// there), otherwise the bare name for PATH resolution.

func Path(specRoot string) (string, error) {
	if specRoot == "" {
		return "runcpu", nil
	}
	p := filepath.Join(specRoot, "bin", "runcpu")
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("runcpu not found at %s", p)
	}
	return p, nil
}

// BuildCommand produces the full argument vector.  Flag order matters in one place: the output
// format selection must precede the verbosity flag, because runcpu's --verbose will consume a
// following bare numeric token as its level.  We sidestep that by ordering, not escaping.

func BuildCommand(runcpuPath string, r Request) []string {
	cmd := []string{runcpuPath}

	// Update is its own mode: no config, no benchmarks, no tuning, just the flag (and verbosity).
	if r.Action == "update" {
		cmd = append(cmd, "--update")
		if r.Verbose {
			cmd = append(cmd, "--verbose=5")
		}
		return cmd
	}

	cmd = append(cmd, "--action", r.Action)
	cmd = append(cmd, "--config", r.Config)

	if r.Tune != "" {
		cmd = append(cmd, "--tune", r.Tune)
	}
	if r.Size != "" {
		cmd = append(cmd, "--size", r.Size)
	}
	if r.Copies > 0 {
		cmd = append(cmd, "--copies", strconv.Itoa(r.Copies))
	}
	if r.Threads > 0 {
		cmd = append(cmd, "--threads", strconv.Itoa(r.Threads))
	}
	if r.Iterations > 0 {
		cmd = append(cmd, "--iterations", strconv.Itoa(r.Iterations))
	}
	if r.Reportable {
		cmd = append(cmd, "--reportable")
	} else if r.NoReportable {
		cmd = append(cmd, "--noreportable")
	}

	switch strings.ToLower(r.OutputFormats) {
	case "all":
		// runcpu's own default set (rsf, html, pdf, txt, ps)
	case "":
		cmd = append(cmd, "--output_format", "rsf,pdf")
	default:
		cmd = append(cmd, "--output_format", r.OutputFormats)
	}

	if r.Verbose {
		cmd = append(cmd, "--verbose=5")
	}
	if r.Rebuild {
		cmd = append(cmd, "--rebuild")
	}
	if r.ParallelTest > 0 {
		cmd = append(cmd, "--parallel_test", strconv.Itoa(r.ParallelTest))
	}
	if r.IgnoreErrors {
		cmd = append(cmd, "--ignore_errors")
	}

	cmd = append(cmd, r.Benchmarks...)
	return cmd
}
