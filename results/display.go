// Human-oriented rendering of a result record.

package results

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/samber/lo"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	scoreColor   = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// Display writes a readable summary of rec to out.  Sections with no data are omitted entirely;
// an empty record prints nothing.
func Display(out io.Writer, rec *Record) {
	if rec == nil {
		return
	}
	displayScores(out, "Scores", rec.Scores, true)
	displayScores(out, "Metrics", rec.Metrics, false)
	displayBenchmarks(out, rec)
	displayFiles(out, rec)
	if rec.LogFile != "" {
		headingColor.Fprintln(out, "Log file")
		fmt.Fprintf(out, "  %s\n", rec.LogFile)
	}
	if rec.ExecutionTime > 0 {
		headingColor.Fprintln(out, "Execution time")
		fmt.Fprintf(out, "  %s\n", FormatDuration(rec.ExecutionTime))
	}
}

func displayScores(out io.Writer, title string, values map[string]float64, emphasize bool) {
	if len(values) == 0 {
		return
	}
	headingColor.Fprintln(out, title)
	names := lo.Keys(values)
	sort.Strings(names)
	width := lo.Max(lo.Map(names, func(n string, _ int) int { return len(n) }))
	for _, name := range names {
		rendered := fmt.Sprintf("%.2f", values[name])
		if emphasize {
			rendered = scoreColor.Sprint(rendered)
		}
		fmt.Fprintf(out, "  %-*s  %s\n", width, name, rendered)
	}
}

func displayBenchmarks(out io.Writer, rec *Record) {
	if len(rec.Benchmarks) == 0 {
		return
	}
	headingColor.Fprintln(out, "Benchmarks")
	ids := lo.Keys(rec.Benchmarks)
	sort.Strings(ids)
	width := lo.Max(lo.Map(ids, func(id string, _ int) int { return len(id) }))
	for _, id := range ids {
		b := rec.Benchmarks[id]
		fmt.Fprintf(out, "  %-*s", width, id)
		if b.Ratio != nil {
			fmt.Fprintf(out, "  ratio %s", scoreColor.Sprintf("%.2f", *b.Ratio))
		}
		if b.Time != nil {
			fmt.Fprintf(out, "  time %.1fs", *b.Time)
		}
		if b.Reference != nil {
			fmt.Fprintf(out, "  ref %.0f", *b.Reference)
		}
		if b.Copies != nil {
			fmt.Fprintf(out, "  copies %d", *b.Copies)
		}
		if b.Threads != nil {
			fmt.Fprintf(out, "  threads %d", *b.Threads)
		}
		fmt.Fprintln(out)
		if b.Warning != "" {
			warnColor.Fprintf(out, "  %-*s  warning: %s\n", width, "", b.Warning)
		}
	}
}

func displayFiles(out io.Writer, rec *Record) {
	if len(rec.Files) == 0 {
		return
	}
	headingColor.Fprintln(out, "Result files")
	for _, f := range rec.Files {
		fmt.Fprintf(out, "  %s %s\n", f.Path, dimColor.Sprintf("(%s)", f.Type))
	}
}

// FormatDuration renders a duration in seconds the way people quote benchmark wall time.
func FormatDuration(seconds float64) string {
	switch {
	case seconds >= 3600:
		h := int(seconds) / 3600
		m := (int(seconds) % 3600) / 60
		return fmt.Sprintf("%dh %dm %ds", h, m, int(seconds)%60)
	case seconds >= 60:
		return fmt.Sprintf("%dm %ds", int(seconds)/60, int(seconds)%60)
	default:
		return fmt.Sprintf("%.1fs", seconds)
	}
}
