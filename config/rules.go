// The substitution-rule table for the vendor config template.
//
// SPEC's Example-gcc-linux-x86.cfg is never parsed, only edited by exact literal substitution
// against lines we know are in it.  All expected literals live here, in one place, keyed to the
// template version we were written against; when SPEC ships a template with different text a rule
// silently no-ops, and the per-rule outcome report makes that visible at debug level instead of
// leaving it entirely silent.

package config

import "strings"

// Template version the literals below were taken from.
const templateVersion = "cpu2017-1.1.9"

const (
	labelLine = `%   define label "mytest"           # (2)      Use a label meaningful to *you*.`
	labelEdit = `%   define label "specer"           # (2)      Use a label meaningful to *you*.`

	gccGateLine = `#%define GCCge10  # EDIT: remove the '#' from column 1 if using GCC 10 or later`
	gccGateEdit = `%define GCCge10  # EDIT: remove the '#' from column 1 if using GCC 10 or later (auto-detected)`

	gccDirLine = `%   define  gcc_dir        "/opt/rh/devtoolset-9/root/usr"  # EDIT (see above)`

	tuneLine = `tune                 = base,peak  # EDIT if needed: set to "base" for old GCC.`

	copiesLine = `   copies           = 1   # EDIT to change number of copies (see above)`
)

type Substitution struct {
	Name string
	Old  string
	New  string
}

type Outcome struct {
	Name    string
	Applied bool
}

// Apply each substitution in order, first occurrence only, recording whether the expected literal
// was present.  An absent literal is not an error: the template has drifted and the edit is lost,
// which the caller reports but tolerates.

func applySubstitutions(text string, subs []Substitution) (string, []Outcome) {
	outcomes := make([]Outcome, 0, len(subs))
	for _, s := range subs {
		edited := strings.Replace(text, s.Old, s.New, 1)
		outcomes = append(outcomes, Outcome{Name: s.Name, Applied: edited != text})
		text = edited
	}
	return text, outcomes
}
