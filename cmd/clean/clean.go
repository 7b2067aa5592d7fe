// The clean verb: remove benchmark build directories (runcpu --action clean).

package clean

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"specer/cmd"
	"specer/common"
	"specer/runcpu"
)

type CleanCommand struct {
	cmd.VerboseArgs
	cmd.DryRunArgs
	cmd.SpecRootArgs
	cmd.NamingArgs
	cmd.ConfigArgs
}

var _ = cmd.Command((*CleanCommand)(nil))

func (cc *CleanCommand) Summary() []string {
	return []string{
		"Clean SPEC CPU 2017 benchmark build directories (runcpu --action clean).",
	}
}

func (cc *CleanCommand) Add(cli *cmd.CLI) {
	cc.VerboseArgs.Add(cli)
	cc.DryRunArgs.Add(cli)
	cc.SpecRootArgs.Add(cli)
	cc.NamingArgs.Add(cli)
	cc.ConfigArgs.Add(cli)
}

func (cc *CleanCommand) Validate() error {
	return errors.Join(
		cc.VerboseArgs.Validate(),
		cc.DryRunArgs.Validate(),
		cc.SpecRootArgs.Validate(),
		cc.NamingArgs.Validate(),
		cc.ConfigArgs.Validate(),
	)
}

func (cc *CleanCommand) Perform(stdout, stderr io.Writer) error {
	resolved := cc.Resolved()
	common.Log.Debugf("Resolved benchmarks: %v", resolved)

	runcpuPath, err := runcpu.Path(cc.SpecRoot)
	if err != nil {
		return err
	}
	vector := runcpu.BuildCommand(runcpuPath, runcpu.Request{
		Action:     "clean",
		Benchmarks: resolved,
		Config:     cc.Config,
		Verbose:    cc.Verbose,
	})

	if cc.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n", strings.Join(vector, " "))
		return nil
	}
	_, err = runcpu.Execute(vector, runcpu.ExecOptions{Affinity: runcpu.NoAffinity()})
	return err
}
