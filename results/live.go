// Extraction from runcpu's live terminal output.

package results

import (
	"regexp"
	"strconv"
	"strings"
)

// The interesting lines in runcpu's chatter.  Order matters only for readability here; each line
// of output is tried against every pattern.

var (
	liveResultRe  = regexp.MustCompile(`(?i)The result(?:s)?\s+(?:file\s+)?is in\s+(\S+)`)
	liveScoreRe   = regexp.MustCompile(`(?i)Est\.\s+(SPEC\S+)\s*=?\s*([\d.]+)`)
	liveLogRe     = regexp.MustCompile(`(?i)The log for this run is in\s+(\S+)`)
	liveReportRe  = regexp.MustCompile(`(?i)(?:format:\s+\S+\s+->|format to|reports are in)\s+(\S+)`)
	fileExtension = []string{".rsf", ".html", ".pdf", ".txt", ".ps"}
)

// ParseOutput scans captured runcpu output for result file locations, estimated scores, and the
// log file.  Returns nil when the output carries no result evidence at all.
func ParseOutput(text string) *Record {
	rec := newRecord()
	for _, line := range strings.Split(text, "\n") {
		parseOutputLine(rec, line)
	}
	if !rec.interesting() {
		return nil
	}
	return rec
}

func parseOutputLine(rec *Record, line string) {
	if m := liveResultRe.FindStringSubmatch(line); m != nil {
		rec.addFile(m[1], "result")
	}
	if m := liveScoreRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			classifyScore(rec, m[1], v)
		}
	}
	if m := liveLogRe.FindStringSubmatch(line); m != nil {
		rec.LogFile = m[1]
	}
	if m := liveReportRe.FindStringSubmatch(line); m != nil {
		rec.addFile(m[1], "result")
	}
	// Paths mentioned in passing, recognized by extension only.  A bare file name without a
	// directory component still counts, runcpu sometimes prints those.
	for _, field := range strings.Fields(line) {
		field = strings.Trim(field, `,;:"'()`)
		for _, ext := range fileExtension {
			if strings.HasSuffix(field, ext) {
				rec.addFile(field, "result_file")
			}
		}
	}
}

// Suite-level names such as SPECspeed2017_int_base go to Scores, coarser ones to Metrics.  The
// distinguishing feature is how deeply the name is qualified.
func classifyScore(rec *Record, name string, value float64) {
	if strings.Count(name, "_") >= 2 {
		rec.Scores[name] = value
	} else {
		rec.Metrics[name] = value
	}
}
