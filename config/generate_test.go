package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"specer/compilers"
)

// A small stand-in for Example-gcc-linux-x86.cfg carrying the exact literals the rule table keys
// on, plus enough structure for the insertion logic to have somewhere to aim.
const testTemplate = `#------- Preprocessor macros ---------
%   define label "mytest"           # (2)      Use a label meaningful to *you*.
#%define GCCge10  # EDIT: remove the '#' from column 1 if using GCC 10 or later
%   define  gcc_dir        "/opt/rh/devtoolset-9/root/usr"  # EDIT (see above)

default:
tune                 = base,peak  # EDIT if needed: set to "base" for old GCC.
output_format        = txt,html

intrate,fprate=base:
   copies           = 1   # EDIT to change number of copies (see above)

intspeed,fpspeed=base:
   threads          = 4
`

func writeTemplate(t *testing.T) string {
	t.Helper()
	root, err := os.MkdirTemp("", "specroot_test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })
	if err := os.MkdirAll(filepath.Join(root, "config"), 0700); err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(root, templateRelPath), []byte(testTemplate), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func generateAndRead(t *testing.T, opts Options) string {
	t.Helper()
	path, err := Generate(opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(path) })
	if !strings.HasSuffix(path, ".cfg") {
		t.Fatalf("Expected a .cfg path, got %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func TestGenerateLabelAndTune(t *testing.T) {
	root := writeTemplate(t)
	text := generateAndRead(t, Options{SpecRoot: root, Tune: "all", Cores: 8, Compiler: "gcc"})

	if !strings.Contains(text, `define label "specer"`) {
		t.Fatal("Expected the specer label marker")
	}
	if strings.Contains(text, `define label "mytest"`) {
		t.Fatal("Template label left in place")
	}
	if !strings.Contains(text, "tune                 = base,peak") {
		t.Fatal("Expected tune = base,peak for -tune all")
	}
	if strings.Count(text, "(auto-set)") != 1 {
		t.Fatal("Expected exactly one auto-set marker")
	}
	if !strings.Contains(text, "   copies           = 8   ") {
		t.Fatal("Expected copies substitution with 8")
	}
}

func TestGenerateTuneIdempotent(t *testing.T) {
	root := writeTemplate(t)
	first := generateAndRead(t, Options{SpecRoot: root, Tune: "all", Compiler: "gcc"})

	// Re-applying the tune rule to already-edited text must no-op, not duplicate the marker.
	edited, outcomes := applySubstitutions(first, buildSubstitutionsForTune("all"))
	if edited != first {
		t.Fatal("Expected no change on re-application")
	}
	if outcomes[0].Applied {
		t.Fatal("Expected tune rule to report not-applied on edited text")
	}
}

func buildSubstitutionsForTune(tune string) []Substitution {
	subs := buildSubstitutions(Options{Tune: tune, Cores: 1}, compilers.Profile{})
	out := make([]Substitution, 0, 1)
	for _, s := range subs {
		if s.Name == "tune" {
			out = append(out, s)
		}
	}
	return out
}

func TestGenerateCopiesDefault(t *testing.T) {
	root := writeTemplate(t)
	text := generateAndRead(t, Options{SpecRoot: root, Compiler: "gcc"})
	want := fmt.Sprintf("   copies           = %d   ", runtime.NumCPU())
	if !strings.Contains(text, want) {
		t.Fatal("Expected the copies default to be the host CPU count")
	}
}

func TestGenerateUnknownTunePassesThrough(t *testing.T) {
	root := writeTemplate(t)
	text := generateAndRead(t, Options{SpecRoot: root, Tune: "exotic", Compiler: "gcc"})
	if !strings.Contains(text, "tune                 = exotic") {
		t.Fatal("Expected unknown tune value verbatim")
	}
}

func TestGenerateMissingTemplate(t *testing.T) {
	root, err := os.MkdirTemp("", "specroot_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(root)
	if _, err := Generate(Options{SpecRoot: root, Compiler: "gcc"}); err == nil {
		t.Fatal("Expected an error for a missing template")
	}
}

func TestExtraSettingExistingSection(t *testing.T) {
	root := writeTemplate(t)
	text := generateAndRead(t, Options{
		SpecRoot:      root,
		Compiler:      "gcc",
		ExtraSettings: []string{"default:env_vars=1"},
	})
	idx := strings.Index(text, "default:\n   env_vars = 1\n")
	if idx < 0 {
		t.Fatal("Expected env_vars inserted right after the default: header")
	}
}

func TestExtraSettingNewSection(t *testing.T) {
	root := writeTemplate(t)
	text := generateAndRead(t, Options{
		SpecRoot:      root,
		Compiler:      "gcc",
		ExtraSettings: []string{"525.x264_r:EXTRA_CFLAGS=-fcommon"},
	})
	block := "525.x264_r:\n   EXTRA_CFLAGS = -fcommon\n"
	idx := strings.Index(text, block)
	if idx < 0 {
		t.Fatal("Expected a synthesized section block")
	}
	// The block must precede the first suite section.
	suiteIdx := strings.Index(text, "intrate,fprate=base:")
	if suiteIdx < 0 || idx > suiteIdx {
		t.Fatal("Expected the synthesized block before the suite sections")
	}
}

func TestExtraSettingMalformed(t *testing.T) {
	root := writeTemplate(t)
	// Generation succeeds and the malformed entries are simply absent.
	text := generateAndRead(t, Options{
		SpecRoot:      root,
		Compiler:      "gcc",
		ExtraSettings: []string{"no-equals-here", "nosection=value", ":k=v"},
	})
	if strings.Contains(text, "no-equals-here") || strings.Contains(text, "nosection") {
		t.Fatal("Expected malformed entries to be skipped")
	}
}

func TestApplySubstitutionsReport(t *testing.T) {
	text, outcomes := applySubstitutions("a b c", []Substitution{
		{Name: "hit", Old: "b", New: "x"},
		{Name: "miss", Old: "zebra", New: "y"},
	})
	if text != "a x c" {
		t.Fatalf("Unexpected text %q", text)
	}
	if !outcomes[0].Applied || outcomes[1].Applied {
		t.Fatalf("Unexpected outcomes %v", outcomes)
	}
}

func TestApplySubstitutionsFirstOccurrenceOnly(t *testing.T) {
	text, _ := applySubstitutions("b b", []Substitution{{Name: "one", Old: "b", New: "x"}})
	if text != "x b" {
		t.Fatalf("Expected first-occurrence replacement, got %q", text)
	}
}
