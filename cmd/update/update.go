// The update verb: patch the SPEC installation (runcpu --update).  The updater may prompt for
// confirmation on its own stdin, so execution pre-writes an affirmative answer.

package update

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"specer/cmd"
	"specer/runcpu"
)

type UpdateCommand struct {
	cmd.VerboseArgs
	cmd.DryRunArgs
	cmd.SpecRootArgs
}

var _ = cmd.Command((*UpdateCommand)(nil))

func (uc *UpdateCommand) Summary() []string {
	return []string{
		"Update the SPEC CPU 2017 installation to the latest version (runcpu --update).",
	}
}

func (uc *UpdateCommand) Add(cli *cmd.CLI) {
	uc.VerboseArgs.Add(cli)
	uc.DryRunArgs.Add(cli)
	uc.SpecRootArgs.Add(cli)
}

func (uc *UpdateCommand) Validate() error {
	return errors.Join(
		uc.VerboseArgs.Validate(),
		uc.DryRunArgs.Validate(),
		uc.SpecRootArgs.Validate(),
	)
}

func (uc *UpdateCommand) Perform(stdout, stderr io.Writer) error {
	runcpuPath, err := runcpu.Path(uc.SpecRoot)
	if err != nil {
		return err
	}
	vector := runcpu.BuildCommand(runcpuPath, runcpu.Request{
		Action:  "update",
		Verbose: uc.Verbose,
	})

	if uc.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n", strings.Join(vector, " "))
		return nil
	}
	_, err = runcpu.Execute(vector, runcpu.ExecOptions{AutoConfirm: true, Affinity: runcpu.NoAffinity()})
	return err
}
