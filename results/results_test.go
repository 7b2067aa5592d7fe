package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOutputScoresAndFiles(t *testing.T) {
	output := `Running benchmarks...
Est. SPECspeed2017_int_base = 123.45
The result is in result/CPU2017.001.test.rsf
The log for this run is in /spec/result/CPU2017.001.log
`
	rec := ParseOutput(output)
	if rec == nil {
		t.Fatal("expected a record")
	}
	if v := rec.Scores["SPECspeed2017_int_base"]; v != 123.45 {
		t.Fatalf("score: got %v", v)
	}
	found := false
	for _, f := range rec.Files {
		if f.Path == "result/CPU2017.001.test.rsf" {
			found = true
		}
	}
	if !found {
		t.Fatalf("result file not discovered: %v", rec.Files)
	}
	if rec.LogFile != "/spec/result/CPU2017.001.log" {
		t.Fatalf("log file: got %q", rec.LogFile)
	}
}

func TestParseOutputCaseInsensitive(t *testing.T) {
	output := `EST. SPECspeed2017_int_base = 123.45
THE RESULT IS IN result/CPU2017.001.test.rsf
`
	rec := ParseOutput(output)
	if rec == nil {
		t.Fatal("expected a record")
	}
	if v := rec.Scores["SPECspeed2017_int_base"]; v != 123.45 {
		t.Fatalf("score: got %v", v)
	}
	found := false
	for _, f := range rec.Files {
		if f.Path == "result/CPU2017.001.test.rsf" && f.Type == "result" {
			found = true
		}
	}
	if !found {
		t.Fatalf("result file not discovered: %v", rec.Files)
	}
}

func TestParseOutputBareFileName(t *testing.T) {
	rec := ParseOutput("CPU2017.001.test.rsf generated\n")
	if rec == nil {
		t.Fatal("expected a record")
	}
	if len(rec.Files) != 1 || rec.Files[0].Path != "CPU2017.001.test.rsf" {
		t.Fatalf("bare file name not discovered: %v", rec.Files)
	}
}

func TestParseOutputReportLocations(t *testing.T) {
	output := `format: PDF -> /spec/result/CPU2017.001.pdf
Wrote the html format to /spec/result/CPU2017.001.html
The reports are in /spec/result/report.txt
`
	rec := ParseOutput(output)
	if rec == nil {
		t.Fatal("expected a record")
	}
	for _, want := range []string{
		"/spec/result/CPU2017.001.pdf",
		"/spec/result/CPU2017.001.html",
		"/spec/result/report.txt",
	} {
		found := false
		for _, f := range rec.Files {
			if f.Path == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("report %s not discovered: %v", want, rec.Files)
		}
	}
}

func TestParseOutputEmpty(t *testing.T) {
	if rec := ParseOutput("Compiling...\nAll done.\n"); rec != nil {
		t.Fatalf("expected nil record, got %+v", rec)
	}
}

func TestParseOutputDeduplicatesFiles(t *testing.T) {
	output := `The result is in result/CPU2017.001.test.rsf
Also see result/CPU2017.001.test.rsf for details
`
	rec := ParseOutput(output)
	if rec == nil {
		t.Fatal("expected a record")
	}
	count := 0
	for _, f := range rec.Files {
		if f.Path == "result/CPU2017.001.test.rsf" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one entry for the path, got %d", count)
	}
}

func TestParseOutputMetricClassification(t *testing.T) {
	output := `Est. SPECspeed2017_int_base = 10.1
Est. SPECspeed2017_int = 9.9
The result is in result/r.rsf
`
	rec := ParseOutput(output)
	if rec == nil {
		t.Fatal("expected a record")
	}
	if _, present := rec.Scores["SPECspeed2017_int_base"]; !present {
		t.Fatal("fully qualified name should be a score")
	}
	if _, present := rec.Metrics["SPECspeed2017_int"]; !present {
		t.Fatal("coarse name should be a metric")
	}
}

const rsfSample = `spec.cpu2017.basemean: 12.3
spec.cpu2017.baseenergymean: --
spec.cpu2017.results.648_exchange2_s.base.000.ratio: 12.380557
spec.cpu2017.results.648_exchange2_s.base.000.reported_sec: 237.5
spec.cpu2017.results.648_exchange2_s.base.000.reference: 2940
spec.cpu2017.results.648_exchange2_s.base.000.threads: 8
spec.cpu2017.errors001: 648.exchange2_s (ref) miscompare noted
spec.cpu2017.errors002: 657.xz_s (ref) did not finish
`

func writeResult(t *testing.T, specRoot, name, contents string) {
	t.Helper()
	dir := filepath.Join(specRoot, "result")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadResultFileRsf(t *testing.T) {
	specRoot := t.TempDir()
	writeResult(t, specRoot, "CPU2017.001.intspeed.rsf", rsfSample)

	rec, err := ReadResultFile("CPU2017.001.intspeed.rsf", specRoot)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	b, present := rec.Benchmarks["648.exchange2_s"]
	if !present {
		t.Fatalf("benchmark id not normalized: %v", rec.Benchmarks)
	}
	if b.Ratio == nil || *b.Ratio != 12.380557 {
		t.Fatalf("ratio: got %v", b.Ratio)
	}
	if b.Time == nil || *b.Time != 237.5 {
		t.Fatalf("time: got %v", b.Time)
	}
	if b.Reference == nil || *b.Reference != 2940 {
		t.Fatalf("reference: got %v", b.Reference)
	}
	if b.Threads == nil || *b.Threads != 8 {
		t.Fatalf("threads: got %v", b.Threads)
	}
	// Error line on a benchmark with a ratio is a warning annotation.
	if !strings.Contains(b.Warning, "miscompare") {
		t.Fatalf("warning: got %q", b.Warning)
	}
	// Error line on a benchmark with no ratio does not create an entry.
	if _, present := rec.Benchmarks["657.xz_s"]; present {
		t.Fatal("benchmark without a ratio must not appear")
	}
	// The suite score name comes from the file path.
	if v := rec.Scores["SPECint2017_speed_base"]; v != 12.3 {
		t.Fatalf("suite score: got %v (%v)", v, rec.Scores)
	}
	// The "--" energy sentinel is skipped.
	if _, present := rec.Metrics["Energy_base"]; present {
		t.Fatal("no-data energy value must be skipped")
	}
}

func TestReadResultFilePathResolution(t *testing.T) {
	specRoot := t.TempDir()
	writeResult(t, specRoot, "CPU2017.002.fprate.rsf", "spec.cpu2017.basemean: 5.5\n")

	// Resolvable by base name even when given with a bogus directory prefix.
	rec, err := ReadResultFile("elsewhere/CPU2017.002.fprate.rsf", specRoot)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if v := rec.Scores["SPECfp2017_rate_base"]; v != 5.5 {
		t.Fatalf("suite score: got %v", v)
	}

	rec, err = ReadResultFile("no/such/file.rsf", specRoot)
	if err != nil || rec != nil {
		t.Fatalf("unresolvable path: got %v, %v", rec, err)
	}
}

func TestReadResultFileTextReport(t *testing.T) {
	specRoot := t.TempDir()
	writeResult(t, specRoot, "CPU2017.003.txt", `
Est. SPECrate2017_fp_base = 44.1
500.perlbench_r  copies  10.5  321.0
`)
	rec, err := ReadResultFile("CPU2017.003.txt", specRoot)
	if err != nil {
		t.Fatal(err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	if v := rec.Scores["SPECrate2017_fp_base"]; v != 44.1 {
		t.Fatalf("score: got %v", v)
	}
	b, present := rec.Benchmarks["500.perlbench_r"]
	if !present || b.Ratio == nil || *b.Ratio != 10.5 || b.Time == nil || *b.Time != 321.0 {
		t.Fatalf("table row: got %+v", b)
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "generated.cfg")
	if err := os.WriteFile(cfgPath, []byte("label = x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	rec := newRecord()
	rec.Scores["SPECspeed2017_int_base"] = 1.0

	outPath := filepath.Join(dir, "out.json")
	written, err := SaveJSON(rec, outPath, "1.0.0", []string{"648.exchange2_s"}, cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(written)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	for _, want := range []string{"SPECspeed2017_int_base", "648.exchange2_s", "label = x", "invocation_id"} {
		if !strings.Contains(text, want) {
			t.Fatalf("exported JSON missing %q", want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{12.3, "12.3s"},
		{75, "1m 15s"},
		{3725, "1h 2m 5s"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Fatalf("%v: got %q, want %q", c.seconds, got, c.want)
		}
	}
}
