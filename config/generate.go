// Config generation: take SPEC's own GCC example template, edit it for this host and invocation,
// and write the result to a fresh temporary file that the caller deletes after the run.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"specer/common"
	"specer/compilers"
)

// Relative to the SPEC installation root.
const templateRelPath = "config/Example-gcc-linux-x86.cfg"

type Options struct {
	// Copy count for rate benchmarks; 0 means "use the host's logical CPU count".
	Cores int

	// SPEC installation root; the template lives under it.
	SpecRoot string

	// Tuning level: base, peak, or all; empty leaves the template's tune line alone.
	Tune string

	// Free-form additions on "section:key=value" form; malformed entries are skipped.
	ExtraSettings []string

	// "gcc", "intel", or empty for auto-detection (Intel first, then GCC).
	Compiler string

	// Explicit oneAPI root from the command line or settings file; empty means probe.
	OneapiRoot string
}

// Generate produces a config file for one invocation and returns its path.  The file is the
// caller's to delete.  A missing template or an unwritable temp directory is an error; every
// detection failure inside is a fallback, never an error.

func Generate(opts Options) (string, error) {
	templatePath := filepath.Join(opts.SpecRoot, templateRelPath)
	raw, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("Could not read config template %s\n%w", templatePath, err)
	}
	text := string(raw)

	profile := chooseCompiler(opts)
	common.Log.Debugf("Config generation using %s toolchain", profile.Kind)

	text, outcomes := applySubstitutions(text, buildSubstitutions(opts, profile))
	for _, o := range outcomes {
		if o.Applied {
			common.Log.Debugf("Template edit %q applied", o.Name)
		} else {
			common.Log.Debugf("Template edit %q not applied: expected %s literal missing",
				o.Name, templateVersion)
		}
	}
	if profile.Kind == compilers.KindGcc && profile.GccRoot == "" {
		common.Log.Warningf("Could not detect GCC path, using the template's default")
	}

	if profile.Kind == compilers.KindIntel {
		text = appendIntelSections(text, profile)
	}

	for _, entry := range opts.ExtraSettings {
		edited, err := insertExtraSetting(text, entry)
		if err != nil {
			common.Log.Warningf("Skipping extra setting %q: %v", entry, err)
			continue
		}
		text = edited
	}

	f, err := os.CreateTemp("", "specer_generated_*.cfg")
	if err != nil {
		return "", fmt.Errorf("Could not create config file\n%w", err)
	}
	_, werr := f.WriteString(text)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("Could not write config file %s", f.Name())
	}
	return f.Name(), nil
}

// chooseCompiler always terminates with some compiler mode.  An explicit "intel" that fails
// validation degrades to GCC: the generated config must never reference an unvalidated toolchain.

func chooseCompiler(opts Options) compilers.Profile {
	switch opts.Compiler {
	case "intel":
		if p, ok := compilers.DetectIntel(opts.OneapiRoot); ok {
			return p
		}
		common.Log.Warningf("Intel toolchain requested but not usable, falling back to GCC")
		return compilers.DetectGcc()
	case "gcc":
		return compilers.DetectGcc()
	default:
		if p, ok := compilers.DetectIntel(opts.OneapiRoot); ok {
			return p
		}
		return compilers.DetectGcc()
	}
}

var tuneMapping = map[string]string{
	"base": "base",
	"peak": "peak",
	"all":  "base,peak",
}

func buildSubstitutions(opts Options, profile compilers.Profile) []Substitution {
	subs := []Substitution{
		{Name: "label", Old: labelLine, New: labelEdit},
	}

	if profile.Kind == compilers.KindGcc {
		if profile.GccMajor >= 10 {
			subs = append(subs, Substitution{Name: "gcc-version-gate", Old: gccGateLine, New: gccGateEdit})
		}
		if profile.GccRoot != "" {
			subs = append(subs, Substitution{
				Name: "gcc-dir",
				Old:  gccDirLine,
				New: fmt.Sprintf(`%%   define  gcc_dir        "%s"  # EDIT (see above) (auto-detected)`,
					profile.GccRoot),
			})
		}
	}

	if opts.Tune != "" {
		tuneValue, found := tuneMapping[opts.Tune]
		if !found {
			tuneValue = opts.Tune
		}
		subs = append(subs, Substitution{
			Name: "tune",
			Old:  tuneLine,
			New: fmt.Sprintf(`tune                 = %s  # EDIT if needed: set to "base" for old GCC. (auto-set)`,
				tuneValue),
		})
	}

	copies := opts.Cores
	if copies <= 0 {
		copies = runtime.NumCPU()
		if copies <= 0 {
			copies = 4
		}
	}
	subs = append(subs, Substitution{
		Name: "copies",
		Old:  copiesLine,
		New:  fmt.Sprintf(`   copies           = %d   # EDIT to change number of copies (see above)`, copies),
	})

	return subs
}
