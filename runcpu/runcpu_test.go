package runcpu

import (
	"slices"
	"strings"
	"testing"
)

func TestBuildCommandUpdate(t *testing.T) {
	cmd := BuildCommand("/opt/spec2017/bin/runcpu", Request{Action: "update"})
	want := []string{"/opt/spec2017/bin/runcpu", "--update"}
	if !slices.Equal(cmd, want) {
		t.Fatalf("Expected %v, got %v", want, cmd)
	}
	cmd = BuildCommand("runcpu", Request{Action: "update", Verbose: true})
	want = []string{"runcpu", "--update", "--verbose=5"}
	if !slices.Equal(cmd, want) {
		t.Fatalf("Expected %v, got %v", want, cmd)
	}

	// Benchmarks are dropped in update mode even if supplied.
	cmd = BuildCommand("runcpu", Request{Action: "update", Benchmarks: []string{"502.gcc_r"}})
	if slices.Contains(cmd, "502.gcc_r") {
		t.Fatal("Update command must not carry benchmarks")
	}
}

func TestBuildCommandRun(t *testing.T) {
	cmd := BuildCommand("runcpu", Request{
		Action:       "run",
		Benchmarks:   []string{"502.gcc_r", "519.lbm_r"},
		Config:       "/tmp/specer_1.cfg",
		Tune:         "base",
		Size:         "ref",
		Copies:       16,
		Iterations:   2,
		Reportable:   true,
		Verbose:      true,
		ParallelTest: 4,
		IgnoreErrors: true,
	})
	want := []string{
		"runcpu",
		"--action", "run",
		"--config", "/tmp/specer_1.cfg",
		"--tune", "base",
		"--size", "ref",
		"--copies", "16",
		"--iterations", "2",
		"--reportable",
		"--output_format", "rsf,pdf",
		"--verbose=5",
		"--parallel_test", "4",
		"--ignore_errors",
		"502.gcc_r", "519.lbm_r",
	}
	if !slices.Equal(cmd, want) {
		t.Fatalf("Expected %v, got %v", want, cmd)
	}
}

// The format selection must precede the verbosity flag, or runcpu's --verbose can eat a following
// numeric token.

func TestBuildCommandFormatBeforeVerbose(t *testing.T) {
	cmd := BuildCommand("runcpu", Request{Action: "build", Config: "c.cfg", Verbose: true})
	fmtIdx := slices.Index(cmd, "--output_format")
	verbIdx := slices.Index(cmd, "--verbose=5")
	if fmtIdx < 0 || verbIdx < 0 || fmtIdx > verbIdx {
		t.Fatalf("Expected --output_format before --verbose=5 in %v", cmd)
	}
}

func TestBuildCommandOutputFormats(t *testing.T) {
	cmd := BuildCommand("runcpu", Request{Action: "run", Config: "c.cfg", OutputFormats: "all"})
	if slices.Contains(cmd, "--output_format") {
		t.Fatal("Format 'all' must suppress --output_format")
	}
	cmd = BuildCommand("runcpu", Request{Action: "run", Config: "c.cfg", OutputFormats: "ALL"})
	if slices.Contains(cmd, "--output_format") {
		t.Fatal("Format 'all' is case-insensitive")
	}
	cmd = BuildCommand("runcpu", Request{Action: "run", Config: "c.cfg", OutputFormats: "rsf,html"})
	i := slices.Index(cmd, "--output_format")
	if i < 0 || cmd[i+1] != "rsf,html" {
		t.Fatalf("Expected custom format list in %v", cmd)
	}
}

func TestWrapWithNumactl(t *testing.T) {
	base := []string{"runcpu", "--update"}

	cmd := wrapWith(base, Affinity{Node: 0, Cores: "0-7"}, true, true)
	want := []string{"numactl", "--cpunodebind", "0", "--membind", "0", "--physcpubind", "0-7", "--", "runcpu", "--update"}
	if !slices.Equal(cmd, want) {
		t.Fatalf("Expected %v, got %v", want, cmd)
	}

	cmd = wrapWith(base, Affinity{Node: 1, Cores: "", NoMemory: true}, true, true)
	want = []string{"numactl", "--cpunodebind", "1", "--", "runcpu", "--update"}
	if !slices.Equal(cmd, want) {
		t.Fatalf("Expected %v, got %v", want, cmd)
	}
}

func TestWrapWithTasksetFallback(t *testing.T) {
	base := []string{"runcpu", "--update"}
	cmd := wrapWith(base, Affinity{Node: -1, Cores: "0,2,4"}, false, true)
	want := []string{"taskset", "-c", "0,2,4", "runcpu", "--update"}
	if !slices.Equal(cmd, want) {
		t.Fatalf("Expected %v, got %v", want, cmd)
	}

	// Node binding cannot be expressed with taskset; unpinned passthrough.
	cmd = wrapWith(base, Affinity{Node: 0, Cores: ""}, false, true)
	if !slices.Equal(cmd, base) {
		t.Fatalf("Expected passthrough, got %v", cmd)
	}

	cmd = wrapWith(base, Affinity{Node: -1, Cores: "0-3"}, false, false)
	if !slices.Equal(cmd, base) {
		t.Fatalf("Expected passthrough with no tools, got %v", cmd)
	}
}

func TestValidCoreList(t *testing.T) {
	for _, good := range []string{"0-3", "0,2,4", "0-3,8-11", "7"} {
		if !ValidCoreList(good) {
			t.Fatalf("Expected %q to be valid", good)
		}
	}
	for _, bad := range []string{"0-3;8", "a-b", "0..3", ""} {
		if ValidCoreList(bad) {
			t.Fatalf("Expected %q to be invalid", bad)
		}
	}
}

func TestParseTopology(t *testing.T) {
	sample := `available: 2 nodes (0-1)
node 0 cpus: 0 1 2 3 4 5 6 7
node 0 size: 64215 MB
node 0 free: 60000 MB
node 1 cpus: 8 9 10 11 12 13 14 15
node 1 size: 64509 MB
node distances:
node   0   1
  0:  10  21
  1:  21  10
`
	topo := parseTopology(sample)
	if topo == nil {
		t.Fatal("Expected a topology")
	}
	if !slices.Equal(topo.Nodes, []int{0, 1}) {
		t.Fatalf("Unexpected nodes %v", topo.Nodes)
	}
	if !slices.Equal(topo.NodeCPUs[1], []int{8, 9, 10, 11, 12, 13, 14, 15}) {
		t.Fatalf("Unexpected node 1 cpus %v", topo.NodeCPUs[1])
	}
	if topo.TotalCPUs != 16 {
		t.Fatalf("Expected 16 cpus, got %d", topo.TotalCPUs)
	}
	if !topo.HasNode(1) || topo.HasNode(2) {
		t.Fatal("HasNode misbehaves")
	}

	if parseTopology("no numa information here") != nil {
		t.Fatal("Expected nil for unparsable output")
	}
}

func TestCurrentBenchmark(t *testing.T) {
	cases := map[string]string{
		"Running 500.perlbench_r test base":             "500.perlbench_r",
		"  Building 502.gcc_r base specer-m64: (build)": "502.gcc_r",
		"519.lbm_r base refrate (ref)":                  "519.lbm_r",
		"specinvoke -d ... 525.x264_r":                  "525.x264_r",
		"648.exchange2_s: copies 1":                     "648.exchange2_s",
		"Reading file manifests... ":                    "",
		"":                                              "",
	}
	for line, want := range cases {
		if got := CurrentBenchmark(line); got != want {
			t.Fatalf("CurrentBenchmark(%q): expected %q, got %q", line, want, got)
		}
	}
	if !strings.HasPrefix(CurrentBenchmark("Running 603.bwaves_s"), "603.") {
		t.Fatal("Expected speed id")
	}
}
