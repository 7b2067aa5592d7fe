package cmd

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"specer/benchmarks"
	"specer/common"
	"specer/runcpu"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// You wouldn't think -v would be so complicated.

type VerboseArgs struct {
	Verbose bool
	Quiet   bool
}

func (va *VerboseArgs) Add(cli *CLI) {
	cli.Group("development")
	cli.BoolVar(&va.Verbose, "v", false, "Show the wrapped tool's own logs and verbose diagnostics")
	cli.BoolVar(&va.Verbose, "verbose", false, "Show the wrapped tool's own logs and verbose diagnostics")
	cli.BoolVar(&va.Quiet, "q", false, "Print warnings and errors only")
	cli.BoolVar(&va.Quiet, "quiet", false, "Print warnings and errors only")
}

func (va *VerboseArgs) Validate() error {
	if va.Verbose {
		common.Log.LowerLevelTo(common.LogLevelDebug)
	} else if va.Quiet {
		common.Log.RaiseLevelTo(common.LogLevelError)
	}
	return nil
}

func (va *VerboseArgs) VerboseFlag() bool {
	return va.Verbose
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Handle -dry-run

type DryRunArgs struct {
	DryRun bool
}

func (da *DryRunArgs) Add(cli *CLI) {
	cli.Group("development")
	cli.BoolVar(&da.DryRun, "n", false, "Show the command that would be executed without running it")
	cli.BoolVar(&da.DryRun, "dry-run", false, "Show the command that would be executed without running it")
}

func (da *DryRunArgs) Validate() error {
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Handle -spec-root.  Resolution order: flag, then $SPEC_PATH, then the settings file.

type SpecRootArgs struct {
	SpecRoot string
}

func (sa *SpecRootArgs) Add(cli *CLI) {
	cli.Group("configuration")
	cli.StringVar(&sa.SpecRoot, "s", "",
		"Select the SPEC CPU 2017 installation `directory` [default: $SPEC_PATH or the .specer setting]")
	cli.StringVar(&sa.SpecRoot, "spec-root", "", "Alias for -s `directory`")
}

func (sa *SpecRootArgs) Validate() error {
	if sa.SpecRoot != "" {
		sa.SpecRoot = path.Clean(sa.SpecRoot)
		return nil
	}
	if d := os.Getenv("SPEC_PATH"); d != "" {
		sa.SpecRoot = path.Clean(d)
		return nil
	}
	if common.ApplyDefault(&sa.SpecRoot, common.SpecRootDefault) {
		sa.SpecRoot = path.Clean(sa.SpecRoot)
		return nil
	}
	return errors.New(`-spec-root is required
Please specify the path to your SPEC CPU 2017 installation:
  specer <command> -spec-root /path/to/spec2017
Or set the SPEC_PATH environment variable:
  export SPEC_PATH=/path/to/spec2017`)
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// NamingArgs: positional benchmark names plus the speed/rate preference flags.

type NamingArgs struct {
	Speed      bool
	Rate       bool
	Benchmarks []string
}

func (na *NamingArgs) Add(cli *CLI) {
	cli.Group("benchmark-selection")
	cli.BoolVar(&na.Speed, "speed", false,
		"Prefer speed variants for simple benchmark names (gcc -> 602.gcc_s)")
	cli.BoolVar(&na.Rate, "rate", false,
		"Prefer rate variants for simple benchmark names (gcc -> 502.gcc_r)")
}

func (na *NamingArgs) SetRestArguments(args []string) {
	na.Benchmarks = args
}

func (na *NamingArgs) Validate() error {
	if na.Speed && na.Rate {
		return errors.New("-speed and -rate are mutually exclusive")
	}
	if len(na.Benchmarks) == 0 {
		return errors.New("At least one benchmark name is required")
	}
	return nil
}

// Resolved maps the positional names to full SPEC ids, inferring the speed/rate preference from
// fully-qualified names in the same invocation when neither flag was given.

func (na *NamingArgs) Resolved() []string {
	preferSpeed, preferRate := na.Speed, na.Rate
	if !preferSpeed && !preferRate {
		preferSpeed, preferRate = benchmarks.DetectSuitePreference(na.Benchmarks)
	}
	return benchmarks.Resolve(na.Benchmarks, preferSpeed, preferRate)
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// GenArgs: config selection with auto-generation from the vendor template.

type repeatableString struct {
	xs []string
}

func (rs *repeatableString) String() string {
	return strings.Join(rs.xs, ",")
}

func (rs *repeatableString) Set(s string) error {
	rs.xs = append(rs.xs, s)
	return nil
}

type GenArgs struct {
	Config        string
	Tune          string
	Cores         int
	Compiler      string
	OneapiRoot    string
	extraSettings repeatableString
}

func (ga *GenArgs) Add(cli *CLI) {
	cli.Group("configuration")
	cli.StringVar(&ga.Config, "c", "",
		"Select the configuration `file` to use [default: auto-generated from the vendor template]")
	cli.StringVar(&ga.Config, "config", "", "Alias for -c `file`")
	cli.StringVar(&ga.Tune, "t", "", "Select the tuning `level`: base, peak, or all [default: base]")
	cli.StringVar(&ga.Tune, "tune", "", "Alias for -t `level`")
	cli.IntVar(&ga.Cores, "cores", 0,
		"Select the `number` of CPU cores to use (copies for rate runs, threads for speed runs)")
	cli.StringVar(&ga.Compiler, "compiler", "",
		"Select the `toolchain` for generated configs: gcc or intel [default: auto-detect]")
	cli.StringVar(&ga.OneapiRoot, "oneapi-root", "",
		"Select the Intel oneAPI installation `directory` [default: probed]")
	cli.Var(&ga.extraSettings, "setting",
		"Insert an extra config line on `section:key=value` form (repeatable)")
}

func (ga *GenArgs) Validate() error {
	switch ga.Compiler {
	case "", "gcc", "intel":
	default:
		return fmt.Errorf("Unknown compiler %q, expected gcc or intel", ga.Compiler)
	}
	common.ApplyDefault(&ga.Tune, common.TuneDefault)
	if ga.Tune == "" {
		ga.Tune = "base"
	}
	common.ApplyDefault(&ga.OneapiRoot, common.OneapiRootDefault)
	if ga.Cores == 0 && common.HasDefault(common.CoresDefault) {
		var cores string
		common.ApplyDefault(&cores, common.CoresDefault)
		n, err := strconv.Atoi(cores)
		if err != nil {
			return fmt.Errorf("Bad cores value %q in the settings file", cores)
		}
		ga.Cores = n
	}
	return nil
}

func (ga *GenArgs) ExtraSettings() []string {
	return ga.extraSettings.xs
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// ConfigArgs: a required, pre-existing config file, for verbs that never auto-generate one.

type ConfigArgs struct {
	Config string
}

func (ca *ConfigArgs) Add(cli *CLI) {
	cli.Group("configuration")
	cli.StringVar(&ca.Config, "c", "", "Select the configuration `file` to use (required)")
	cli.StringVar(&ca.Config, "config", "", "Alias for -c `file`")
}

func (ca *ConfigArgs) Validate() error {
	if ca.Config == "" {
		return errors.New("-config is required")
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// BuildArgs: flags shared by the verbs that (re)build benchmark binaries.

type BuildArgs struct {
	Rebuild      bool
	ParallelTest int
	IgnoreErrors bool
}

func (ba *BuildArgs) Add(cli *CLI) {
	cli.Group("execution")
	cli.BoolVar(&ba.Rebuild, "rebuild", false, "Force rebuild of binaries")
	cli.IntVar(&ba.ParallelTest, "parallel-test", 0, "Select the `number` of parallel test processes")
	cli.BoolVar(&ba.IgnoreErrors, "ignore-errors", false,
		"Continue with other benchmarks if one fails")
}

func (ba *BuildArgs) Validate() error {
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// AffinityArgs: NUMA node and CPU core binding, validated against the live topology.

type AffinityArgs struct {
	NumaNode     int
	CpuCores     string
	NoNumaMemory bool
}

func (aa *AffinityArgs) Add(cli *CLI) {
	cli.Group("affinity")
	cli.IntVar(&aa.NumaNode, "numa-node", -1,
		"Bind processes and memory to the given NUMA `node`")
	cli.StringVar(&aa.CpuCores, "cpu-cores", "",
		"Bind processes to the given CPU `cores` ('0-3', '0,2,4', '0-3,8-11')")
	cli.BoolVar(&aa.NoNumaMemory, "no-numa-memory", false,
		"Do not bind memory allocation to the NUMA node given with -numa-node")
}

func (aa *AffinityArgs) Validate() error {
	if aa.CpuCores != "" && !runcpu.ValidCoreList(aa.CpuCores) {
		return errors.New("Invalid CPU cores format.  Use formats like '0-3', '0,2,4', or '0-3,8-11'")
	}
	if aa.NumaNode >= 0 {
		topo := runcpu.QueryTopology()
		if topo == nil {
			return errors.New("NUMA topology not available or numactl not installed")
		}
		if !topo.HasNode(aa.NumaNode) {
			return fmt.Errorf("NUMA node %d not available.  Available nodes: %v", aa.NumaNode, topo.Nodes)
		}
		common.Log.Debugf("NUMA node %d validated (CPUs: %v)", aa.NumaNode, topo.NodeCPUs[aa.NumaNode])
	}
	return nil
}

func (aa *AffinityArgs) Affinity() runcpu.Affinity {
	return runcpu.Affinity{
		Node:     aa.NumaNode,
		Cores:    aa.CpuCores,
		NoMemory: aa.NoNumaMemory,
	}
}
