// Run a long-lived subprocess while consuming its combined stdout/stderr line by line on the
// calling goroutine.  This is how we watch runcpu while it works: every line is offered to an
// optional callback (progress detection) and optionally echoed, and the whole text is returned for
// parsing afterward.

package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

type StreamOptions struct {
	// Text pre-written to the child's stdin, typically an affirmative answer to an interactive
	// prompt the child may or may not present.  Empty means no stdin.
	Stdin string

	// If not nil, every output line is written here as it arrives.
	Echo io.Writer

	// If not nil, called with every output line as it arrives.
	OnLine func(line string)
}

// Streamed exit conditions.  A nonzero exit from the child is not an error here; the caller decides
// what a nonzero code means.  Code is 130 if the child died from SIGINT, mirroring shell behavior.

func StreamSubprocess(command []string, opts StreamOptions) (output string, code int, err error) {
	cmd := exec.Command(command[0], command[1:]...)
	if opts.Stdin != "" {
		cmd.Stdin = strings.NewReader(opts.Stdin)
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		return "", 0, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return "", 0, fmt.Errorf("While starting %s\n%w", command[0], err)
	}
	// The parent's copy of the write end must be closed or the read loop never sees EOF.
	pw.Close()

	var all strings.Builder
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		all.WriteString(line)
		all.WriteByte('\n')
		if opts.Echo != nil {
			fmt.Fprintln(opts.Echo, line)
		}
		if opts.OnLine != nil {
			opts.OnLine(line)
		}
	}
	pr.Close()

	err = cmd.Wait()
	code = exitCode(cmd, err)
	return all.String(), code, nil
}

// Run the command interactively: the child inherits our stdin/stdout/stderr, nothing is captured.

func RunInteractive(command []string) (code int, err error) {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("While starting %s\n%w", command[0], err)
	}
	err = cmd.Wait()
	return exitCode(cmd, err), nil
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if state := cmd.ProcessState; state != nil {
		if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			if ws.Signal() == syscall.SIGINT {
				return 130
			}
			return 128 + int(ws.Signal())
		}
		return state.ExitCode()
	}
	return 1
}
