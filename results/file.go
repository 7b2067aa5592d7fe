// Extraction from result artifacts on disk.
//
// The .rsf files are dense dotted-key dumps and get the reliable extractor set; the human-oriented
// report formats (.txt, .html, ...) get a looser set that tolerates layout drift.

package results

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"specer/common"
)

// The RSF extractors, applied in order over the whole file.  The error extractor must run after
// the ratio extractors: warnings attach only to benchmarks that produced a ratio.

type rsfExtractor struct {
	name string
	re   *regexp.Regexp
}

var rsfExtractors = []rsfExtractor{
	{"suite_base_mean", regexp.MustCompile(`(?im)spec\.cpu2017\.basemean:\s*([\d.]+)`)},
	{"suite_peak_mean", regexp.MustCompile(`(?im)spec\.cpu2017\.peakmean:\s*([\d.]+)`)},
	{"suite_base_energy", regexp.MustCompile(`(?im)spec\.cpu2017\.baseenergymean:\s*(\S+)`)},
	{"suite_peak_energy", regexp.MustCompile(`(?im)spec\.cpu2017\.peakenergymean:\s*(\S+)`)},
	{"detailed_ratio", regexp.MustCompile(`(?im)spec\.cpu2017\.results\.(\d{3}_\w+)\.(?:base|peak)\.000\.ratio:\s*([\d.]+)`)},
	{"detailed_time", regexp.MustCompile(`(?im)spec\.cpu2017\.results\.(\d{3}_\w+)\.(?:base|peak)\.000\.reported_sec:\s*([\d.]+)`)},
	{"detailed_reference", regexp.MustCompile(`(?im)spec\.cpu2017\.results\.(\d{3}_\w+)\.(?:base|peak)\.000\.reference:\s*([\d.]+)`)},
	{"detailed_copies", regexp.MustCompile(`(?im)spec\.cpu2017\.results\.(\d{3}_\w+)\.(?:base|peak)\.000\.copies:\s*([\d.]+)`)},
	{"detailed_threads", regexp.MustCompile(`(?im)spec\.cpu2017\.results\.(\d{3}_\w+)\.(?:base|peak)\.000\.threads:\s*([\d.]+)`)},
	{"legacy_ratio", regexp.MustCompile(`(?im)spec\.cpu2017\.(\d{3}\.\w+)\.(?:base|peak)\.ratio:\s*([\d.]+)`)},
	{"legacy_time", regexp.MustCompile(`(?im)spec\.cpu2017\.(\d{3}\.\w+)\.(?:base|peak)\.time:\s*([\d.]+)`)},
	{"legacy_result", regexp.MustCompile(`(?im)spec\.cpu2017\.(\d{3}\.\w+)\.(?:base|peak)\.result:\s*([\d.]+)`)},
	{"benchmark_error", regexp.MustCompile(`(?im)spec\.cpu2017\.errors\d+:\s*(\d{3}\.\w+)\s*\([^)]+\)\s*(.+)`)},
}

var textExtractors = []rsfExtractor{
	{"overall_score", regexp.MustCompile(`(?im)Est\.\s+(SPEC\w+\d+_\w+_\w+)\s*=\s*([\d.]+)`)},
	{"suite_metric", regexp.MustCompile(`(?im)Est\.\s+(SPEC\w+\d+_\w+)\s*=\s*([\d.]+)`)},
	{"table_result", regexp.MustCompile(`(?im)(\d{3}\.\w+)\s+[\w\s]+\s+([\d.]+)\s+([\d.]+)`)},
	{"html_result", regexp.MustCompile(`(?im)<td[^>]*>(\d{3}\.\w+)</td>.*?<td[^>]*>([\d.]+)</td>.*?<td[^>]*>([\d.]+)</td>`)},
}

// ReadResultFile reads and parses a result artifact.  Relative paths are resolved against likely
// locations under specRoot; no such file means no record.  Unreadable files are reported by the
// caller, so the error carries the failing path.
func ReadResultFile(path, specRoot string) (*Record, error) {
	resolved := resolveResultPath(path, specRoot)
	if resolved == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	rec := newRecord()
	rec.FilePath = resolved
	content := string(raw)
	if strings.HasSuffix(resolved, ".rsf") {
		parseRsf(rec, content, resolved)
	} else {
		parseReport(rec, content)
	}
	return rec, nil
}

func resolveResultPath(path, specRoot string) string {
	if filepath.IsAbs(path) {
		return path
	}
	candidates := []string{
		filepath.Join(specRoot, path),
		filepath.Join(specRoot, "result", path),
		filepath.Join(specRoot, "result", filepath.Base(path)),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func parseRsf(rec *Record, content, filePath string) {
	for _, ex := range rsfExtractors {
		for _, m := range ex.re.FindAllStringSubmatch(content, -1) {
			applyRsfMatch(rec, ex.name, m, filePath)
		}
	}
}

func applyRsfMatch(rec *Record, name string, m []string, filePath string) {
	switch name {
	case "suite_base_mean", "suite_peak_mean":
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rec.Scores[suiteScoreName(filePath, name)] = v
		}
	case "suite_base_energy", "suite_peak_energy":
		if m[1] == "--" {
			return // no data
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			tune := "peak"
			if strings.Contains(name, "base") {
				tune = "base"
			}
			rec.Metrics["Energy_"+tune] = v
		}
	case "detailed_ratio", "detailed_time", "detailed_reference", "detailed_copies", "detailed_threads":
		// 648_exchange2_s -> 648.exchange2_s; only the first underscore separates number from name.
		id := strings.Replace(m[1], "_", ".", 1)
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return
		}
		b := rec.benchmark(id)
		switch name {
		case "detailed_ratio":
			b.Ratio = floatPtr(v)
		case "detailed_time":
			b.Time = floatPtr(v)
		case "detailed_reference":
			b.Reference = floatPtr(v)
		case "detailed_copies":
			b.Copies = intPtr(int(v))
		case "detailed_threads":
			b.Threads = intPtr(int(v))
		}
	case "legacy_ratio", "legacy_time", "legacy_result":
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return
		}
		b := rec.benchmark(m[1])
		switch name {
		case "legacy_ratio":
			b.Ratio = floatPtr(v)
		case "legacy_time":
			b.Time = floatPtr(v)
		case "legacy_result":
			b.Result = floatPtr(v)
		}
	case "benchmark_error":
		// A benchmark that never produced a ratio did not run; an error line alone does not
		// earn it an entry.
		if b, found := rec.Benchmarks[m[1]]; found && b.Ratio != nil {
			b.Warning = strings.TrimSpace(m[2])
		}
	}
}

// The suite score line in an RSF file does not name its metric, so the name is reconstructed from
// the file path, which embeds the suite.
func suiteScoreName(filePath, patternName string) string {
	domain := "fp"
	if strings.Contains(filePath, "intspeed") || strings.Contains(filePath, "intrate") {
		domain = "int"
	}
	mode := "speed"
	if strings.Contains(filePath, "rate") {
		mode = "rate"
	}
	tune := "peak"
	if strings.Contains(patternName, "base") {
		tune = "base"
	}
	return "SPEC" + domain + "2017_" + mode + "_" + tune
}

func parseReport(rec *Record, content string) {
	for _, ex := range textExtractors {
		for _, m := range ex.re.FindAllStringSubmatch(content, -1) {
			switch ex.name {
			case "overall_score", "suite_metric":
				v, err := strconv.ParseFloat(m[2], 64)
				if err != nil {
					continue
				}
				if strings.Contains(m[1], "base") || strings.Contains(m[1], "peak") {
					rec.Scores[m[1]] = v
				} else {
					rec.Metrics[m[1]] = v
				}
			case "table_result", "html_result":
				ratio, err1 := strconv.ParseFloat(m[2], 64)
				time, err2 := strconv.ParseFloat(m[3], 64)
				if err1 != nil || err2 != nil {
					common.Log.Debugf("skipping unparseable result row for %s", m[1])
					continue
				}
				b := rec.benchmark(m[1])
				b.Ratio = floatPtr(ratio)
				b.Time = floatPtr(time)
			}
		}
	}
}
