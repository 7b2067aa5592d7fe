// Structured benchmark results recovered from runcpu's output and result artifacts.
//
// Nothing in this package is authoritative about the formats it reads: the grammars belong to the
// SPEC tools and we only pattern-match them.  Extraction is therefore tolerant throughout -
// malformed numbers and unmatched lines degrade to partial results, never to errors.

package results

// FileRef is a discovered result artifact.  Type is "result" for announced locations and
// "result_file" for paths sniffed out of free text by extension.

type FileRef struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Benchmark holds the per-benchmark fields; all optional, pointers distinguish absent from zero.

type Benchmark struct {
	Ratio     *float64 `json:"ratio,omitempty"`
	Time      *float64 `json:"time,omitempty"`
	Reference *float64 `json:"reference,omitempty"`
	Result    *float64 `json:"result,omitempty"`
	Copies    *int     `json:"copies,omitempty"`
	Threads   *int     `json:"threads,omitempty"`
	Warning   string   `json:"warning,omitempty"`
	Status    string   `json:"status,omitempty"`
}

// Record is the normalized result of one extraction pass.  Scores holds suite-level named metrics
// with a full _<tuning>_<metric> name; Metrics holds the coarser suite values (energy, aggregates).

type Record struct {
	FilePath      string                `json:"file_path,omitempty"`
	Scores        map[string]float64    `json:"scores"`
	Metrics       map[string]float64    `json:"metrics"`
	Benchmarks    map[string]*Benchmark `json:"benchmark_results"`
	Files         []FileRef             `json:"result_files"`
	LogFile       string                `json:"log_file,omitempty"`
	ExecutionTime float64               `json:"execution_time,omitempty"`
}

func newRecord() *Record {
	return &Record{
		Scores:     make(map[string]float64),
		Metrics:    make(map[string]float64),
		Benchmarks: make(map[string]*Benchmark),
		Files:      []FileRef{},
	}
}

// A record is worth reporting only if it has file, score, or log evidence; callers get nil rather
// than a vacuous record, so "nothing extracted" and "extraction found nothing" stay distinct.

func (r *Record) interesting() bool {
	return len(r.Files) > 0 || len(r.Scores) > 0 || r.LogFile != ""
}

func (r *Record) benchmark(id string) *Benchmark {
	b, found := r.Benchmarks[id]
	if !found {
		b = new(Benchmark)
		r.Benchmarks[id] = b
	}
	return b
}

func (r *Record) addFile(path, kind string) {
	for _, f := range r.Files {
		if f.Path == path {
			return
		}
	}
	r.Files = append(r.Files, FileRef{Path: path, Type: kind})
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
