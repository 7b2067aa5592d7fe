// The compile verb: build benchmark binaries without running them (runcpu --action build).

package compile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"specer/cmd"
	"specer/common"
	"specer/config"
	"specer/runcpu"
)

type CompileCommand struct {
	cmd.VerboseArgs
	cmd.DryRunArgs
	cmd.SpecRootArgs
	cmd.NamingArgs
	cmd.GenArgs
	cmd.BuildArgs
	cmd.AffinityArgs
}

var _ = cmd.Command((*CompileCommand)(nil))

func (cc *CompileCommand) Summary() []string {
	return []string{
		"Compile SPEC CPU 2017 benchmarks (runcpu --action build).",
		"Config files are generated from the vendor template when -config is not given.",
	}
}

func (cc *CompileCommand) Add(cli *cmd.CLI) {
	cc.VerboseArgs.Add(cli)
	cc.DryRunArgs.Add(cli)
	cc.SpecRootArgs.Add(cli)
	cc.NamingArgs.Add(cli)
	cc.GenArgs.Add(cli)
	cc.BuildArgs.Add(cli)
	cc.AffinityArgs.Add(cli)
}

func (cc *CompileCommand) Validate() error {
	return errors.Join(
		cc.VerboseArgs.Validate(),
		cc.DryRunArgs.Validate(),
		cc.SpecRootArgs.Validate(),
		cc.NamingArgs.Validate(),
		cc.GenArgs.Validate(),
		cc.BuildArgs.Validate(),
		cc.AffinityArgs.Validate(),
	)
}

func (cc *CompileCommand) Perform(stdout, stderr io.Writer) error {
	resolved := cc.Resolved()
	common.Log.Debugf("Resolved benchmarks: %v", resolved)

	effectiveConfig := cc.Config
	if effectiveConfig == "" {
		generated, err := config.Generate(config.Options{
			Cores:         cc.Cores,
			SpecRoot:      cc.SpecRoot,
			Tune:          cc.Tune,
			ExtraSettings: cc.ExtraSettings(),
			Compiler:      cc.Compiler,
			OneapiRoot:    cc.OneapiRoot,
		})
		if err != nil {
			return fmt.Errorf("Could not auto-generate config file from template\n%w", err)
		}
		defer os.Remove(generated)
		effectiveConfig = generated
		if cc.DryRun {
			fmt.Fprintf(stdout, "Auto-generated config file: %s\n", generated)
		}
	}

	runcpuPath, err := runcpu.Path(cc.SpecRoot)
	if err != nil {
		return err
	}
	vector := runcpu.BuildCommand(runcpuPath, runcpu.Request{
		Action:       "build",
		Benchmarks:   resolved,
		Config:       effectiveConfig,
		Tune:         cc.Tune,
		Verbose:      cc.Verbose,
		Rebuild:      cc.Rebuild,
		ParallelTest: cc.ParallelTest,
		IgnoreErrors: cc.IgnoreErrors,
	})

	if cc.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n",
			strings.Join(runcpu.Wrap(vector, cc.Affinity()), " "))
		return nil
	}

	_, err = runcpu.Execute(vector, runcpu.ExecOptions{Affinity: cc.Affinity()})
	return err
}
