// The setup verb: extract and prepare benchmark sources (runcpu --action setup).

package setup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"specer/cmd"
	"specer/common"
	"specer/runcpu"
)

type SetupCommand struct {
	cmd.VerboseArgs
	cmd.DryRunArgs
	cmd.SpecRootArgs
	cmd.NamingArgs
	cmd.ConfigArgs

	Tune string
}

var _ = cmd.Command((*SetupCommand)(nil))

func (sc *SetupCommand) Summary() []string {
	return []string{
		"Setup SPEC CPU 2017 benchmarks: extract and prepare source code",
		"(runcpu --action setup).",
	}
}

func (sc *SetupCommand) Add(cli *cmd.CLI) {
	sc.VerboseArgs.Add(cli)
	sc.DryRunArgs.Add(cli)
	sc.SpecRootArgs.Add(cli)
	sc.NamingArgs.Add(cli)
	sc.ConfigArgs.Add(cli)

	cli.Group("configuration")
	cli.StringVar(&sc.Tune, "t", "", "Select the tuning `level`: base, peak, or all [default: base]")
	cli.StringVar(&sc.Tune, "tune", "", "Alias for -t `level`")
}

func (sc *SetupCommand) Validate() error {
	if err := errors.Join(
		sc.VerboseArgs.Validate(),
		sc.DryRunArgs.Validate(),
		sc.SpecRootArgs.Validate(),
		sc.NamingArgs.Validate(),
		sc.ConfigArgs.Validate(),
	); err != nil {
		return err
	}
	if sc.Tune == "" {
		sc.Tune = "base"
	}
	return nil
}

func (sc *SetupCommand) Perform(stdout, stderr io.Writer) error {
	resolved := sc.Resolved()
	common.Log.Debugf("Resolved benchmarks: %v", resolved)

	runcpuPath, err := runcpu.Path(sc.SpecRoot)
	if err != nil {
		return err
	}
	vector := runcpu.BuildCommand(runcpuPath, runcpu.Request{
		Action:     "setup",
		Benchmarks: resolved,
		Config:     sc.Config,
		Tune:       sc.Tune,
		Verbose:    sc.Verbose,
	})

	if sc.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n", strings.Join(vector, " "))
		return nil
	}
	_, err = runcpu.Execute(vector, runcpu.ExecOptions{Affinity: runcpu.NoAffinity()})
	return err
}
