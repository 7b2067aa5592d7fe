// Abstractions for running subprocesses and capturing their output.

package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Run the program with the arguments, collecting its output and returning it.  If there is an error
// in running the program or the program exits with a nonzero code then an error is returned along
// with stderr and stdout is empty, otherwise stdout and stderr are returned but the assumption is
// that the command exited with code zero.

func RunSubprocess(programPath string, arguments []string) (string, string, error) {
	cmd := exec.Command(programPath, arguments...)
	var stdout strings.Builder
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	errs := stderr.String()
	if err != nil {
		return "", errs, errors.Join(fmt.Errorf("While running %s", programPath), err)
	}
	outs := stdout.String()
	return outs, errs, nil
}

// As RunSubprocess, but the program is killed when the timeout expires.  A timeout is reported as
// an ordinary error; detection-style callers treat any error as "not detected".

func RunTimeout(
	timeout time.Duration,
	programPath string,
	arguments ...string,
) (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, programPath, arguments...)
	var stdout strings.Builder
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	errs := stderr.String()
	if err != nil {
		return "", errs, errors.Join(fmt.Errorf("While running %s", programPath), err)
	}
	return stdout.String(), errs, nil
}

// As RunTimeout, but with an explicit environment for the child (nil means inherit).

func RunTimeoutEnv(
	timeout time.Duration,
	env []string,
	programPath string,
	arguments ...string,
) (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, programPath, arguments...)
	cmd.Env = env
	var stdout strings.Builder
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	errs := stderr.String()
	if err != nil {
		return "", errs, errors.Join(fmt.Errorf("While running %s", programPath), err)
	}
	return stdout.String(), errs, nil
}
