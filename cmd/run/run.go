// The run verb: build-and-run benchmarks via runcpu --action run, with config auto-generation,
// result extraction, and optional JSON export.

package run

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"specer/benchmarks"
	"specer/cmd"
	"specer/common"
	"specer/config"
	"specer/results"
	"specer/runcpu"
)

type RunCommand struct {
	cmd.VerboseArgs
	cmd.DryRunArgs
	cmd.SpecRootArgs
	cmd.NamingArgs
	cmd.GenArgs
	cmd.BuildArgs
	cmd.AffinityArgs

	Size         string
	Copies       int
	Threads      int
	Iterations   int
	Reportable   bool
	NoReportable bool

	OutputFormats string
	ParseResults  bool
	Json          bool
	JsonFile      string
}

var _ = cmd.Command((*RunCommand)(nil))

func (rc *RunCommand) Summary() []string {
	return []string{
		"Run SPEC CPU 2017 benchmarks (runcpu --action run).",
		"Config files are generated from the vendor template when -config is not given.",
	}
}

func (rc *RunCommand) Add(cli *cmd.CLI) {
	rc.VerboseArgs.Add(cli)
	rc.DryRunArgs.Add(cli)
	rc.SpecRootArgs.Add(cli)
	rc.NamingArgs.Add(cli)
	rc.GenArgs.Add(cli)
	rc.BuildArgs.Add(cli)
	rc.AffinityArgs.Add(cli)

	cli.Group("execution")
	cli.StringVar(&rc.Size, "i", "", "Select the workload `size`: test, train, or ref [default: ref]")
	cli.StringVar(&rc.Size, "size", "", "Alias for -i `size`")
	cli.IntVar(&rc.Copies, "copies", 0, "Select the `number` of copies for rate benchmarks")
	cli.IntVar(&rc.Threads, "threads", 0, "Select the `number` of threads for speed benchmarks")
	cli.IntVar(&rc.Iterations, "iterations", 0, "Select the `number` of iterations (2 or 3 for reportable runs)")
	cli.BoolVar(&rc.Reportable, "reportable", false, "Run in reportable mode (requires a full suite)")
	cli.BoolVar(&rc.NoReportable, "noreportable", false, "Run in non-reportable mode")

	cli.Group("output")
	cli.StringVar(&rc.OutputFormats, "output-formats", "",
		"Select the SPEC output `formats` [default: rsf,pdf].  Use 'all' for the tool's full set")
	cli.BoolVar(&rc.ParseResults, "parse-results", false,
		"Parse runcpu output for result file locations and scores")
	cli.BoolVar(&rc.Json, "json", false, "Save results to an auto-named JSON file")
	cli.StringVar(&rc.JsonFile, "json-file", "", "Save results to the JSON `file`")
}

func (rc *RunCommand) Validate() error {
	if err := errors.Join(
		rc.VerboseArgs.Validate(),
		rc.DryRunArgs.Validate(),
		rc.SpecRootArgs.Validate(),
		rc.NamingArgs.Validate(),
		rc.GenArgs.Validate(),
		rc.BuildArgs.Validate(),
		rc.AffinityArgs.Validate(),
	); err != nil {
		return err
	}
	if rc.Size == "" {
		rc.Size = "ref"
	}
	if rc.JsonFile != "" {
		rc.Json = true
	}
	if rc.Reportable {
		if !lo.SomeBy(rc.Benchmarks, func(b string) bool {
			return benchmarks.IsSuiteKeyword(b)
		}) {
			return errors.New(`-reportable requires a full benchmark suite

Valid suites for reportable runs:
  intspeed   - Integer speed benchmarks
  intrate    - Integer rate benchmarks
  fpspeed    - Floating-point speed benchmarks
  fprate     - Floating-point rate benchmarks
  all        - All benchmark suites

For individual benchmarks, use -noreportable instead`)
		}
	}
	return nil
}

func (rc *RunCommand) Perform(stdout, stderr io.Writer) error {
	resolved := rc.Resolved()
	common.Log.Debugf("Resolved benchmarks: %v", resolved)

	effectiveConfig, cleanup, err := rc.ensureConfig(stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	runcpuPath, err := runcpu.Path(rc.SpecRoot)
	if err != nil {
		return err
	}

	copies, threads := rc.effectiveParallelism(resolved, stdout)

	vector := runcpu.BuildCommand(runcpuPath, runcpu.Request{
		Action:        "run",
		Benchmarks:    resolved,
		Config:        effectiveConfig,
		Tune:          rc.Tune,
		Size:          rc.Size,
		Copies:        copies,
		Threads:       threads,
		Iterations:    rc.Iterations,
		Reportable:    rc.Reportable,
		NoReportable:  rc.NoReportable,
		OutputFormats: rc.OutputFormats,
		Verbose:       rc.Verbose,
		Rebuild:       rc.Rebuild,
		ParallelTest:  rc.ParallelTest,
		IgnoreErrors:  rc.IgnoreErrors,
	})

	if rc.DryRun {
		fmt.Fprintf(stdout, "Would execute: %s\n",
			strings.Join(runcpu.Wrap(vector, rc.Affinity()), " "))
		return nil
	}

	shouldParse := rc.ParseResults || rc.Json || !rc.Verbose
	opts := runcpu.ExecOptions{
		Capture:  shouldParse,
		Affinity: rc.Affinity(),
	}
	if shouldParse {
		if rc.Verbose {
			opts.Echo = stdout
		} else {
			opts.Progress = func(bench string) {
				fmt.Fprintf(stdout, "Running %s ...\n", bench)
			}
		}
	}

	started := time.Now()
	output, err := runcpu.Execute(vector, opts)
	elapsed := time.Since(started).Seconds()
	if err != nil {
		return err
	}

	if !shouldParse {
		return nil
	}
	rec := results.ParseOutput(output)
	if rec == nil {
		common.Log.Warningf("No result information found in the output")
		return nil
	}
	rc.enrich(rec)
	rec.ExecutionTime = elapsed
	results.Display(stdout, rec)

	if rc.Json {
		path, err := results.SaveJSON(rec, rc.JsonFile, cmd.Version, resolved, effectiveConfig)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Results saved to: %s\n", path)
	}
	return nil
}

// ensureConfig returns the config to use and a cleanup function.  A config we generated is
// deleted after the run; one the user supplied is not ours to touch.

func (rc *RunCommand) ensureConfig(stdout io.Writer) (string, func(), error) {
	if rc.Config != "" {
		return rc.Config, func() {}, nil
	}
	common.Log.Debugf("Generating config from template")
	generated, err := config.Generate(config.Options{
		Cores:         rc.Cores,
		SpecRoot:      rc.SpecRoot,
		Tune:          rc.Tune,
		ExtraSettings: rc.ExtraSettings(),
		Compiler:      rc.Compiler,
		OneapiRoot:    rc.OneapiRoot,
	})
	if err != nil {
		return "", nil, fmt.Errorf("Could not auto-generate config file from template\n%w", err)
	}
	if rc.DryRun {
		fmt.Fprintf(stdout, "Auto-generated config file: %s\n", generated)
	}
	return generated, func() { os.Remove(generated) }, nil
}

// effectiveParallelism folds -cores into copies (pure rate invocations), threads (pure speed), or
// both with a warning (mixed).  Explicit -copies/-threads always carry through unchanged.

func (rc *RunCommand) effectiveParallelism(resolved []string, stdout io.Writer) (copies, threads int) {
	copies, threads = rc.Copies, rc.Threads
	if rc.Cores == 0 {
		return
	}
	isRate := lo.SomeBy(resolved, benchmarks.IsRate)
	isSpeed := lo.SomeBy(resolved, benchmarks.IsSpeed)
	switch {
	case isRate && !isSpeed:
		copies = rc.Cores
		if rc.DryRun {
			fmt.Fprintf(stdout, "Using -cores=%d as copies for rate benchmarks\n", rc.Cores)
		}
	case isSpeed && !isRate:
		threads = rc.Cores
		if rc.DryRun {
			fmt.Fprintf(stdout, "Using -cores=%d as threads for speed benchmarks\n", rc.Cores)
		}
	case isRate && isSpeed:
		common.Log.Warningf("Mixed rate and speed benchmarks detected. " +
			"-cores will be used as both copies and threads. " +
			"Consider using -copies and -threads explicitly.")
		copies = rc.Cores
		threads = rc.Cores
	default:
		threads = rc.Cores
	}
	return
}

// enrich folds per-benchmark detail from discovered result files into the live record.  RSF files
// carry the most complete data, so other formats are consulted only when no RSF file yielded
// anything.

func (rc *RunCommand) enrich(rec *results.Record) {
	if len(rec.Files) == 0 {
		return
	}
	rsfFiles, otherFiles := lo.FilterReject(rec.Files, func(f results.FileRef, _ int) bool {
		return strings.HasSuffix(f.Path, ".rsf")
	})
	merged := rc.mergeBenchmarks(rsfFiles)
	if len(merged) == 0 {
		merged = rc.mergeBenchmarks(otherFiles)
	}
	if len(merged) > 0 {
		rec.Benchmarks = merged
	}
}

func (rc *RunCommand) mergeBenchmarks(files []results.FileRef) map[string]*results.Benchmark {
	merged := make(map[string]*results.Benchmark)
	for _, f := range files {
		detailed, err := results.ReadResultFile(f.Path, rc.SpecRoot)
		if err != nil {
			common.Log.Warningf("Could not parse result file %s: %v", f.Path, err)
			continue
		}
		if detailed == nil {
			continue
		}
		for id, b := range detailed.Benchmarks {
			merged[id] = b
		}
	}
	return merged
}
