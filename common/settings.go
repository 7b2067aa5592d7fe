// Per-user defaults for common options, read from $HOME/.specer on ini format:
//
//   [spec]
//   root = /opt/spec2017
//
//   [oneapi]
//   root = /opt/intel/oneapi
//
//   [defaults]
//   tune = base
//   cores = 16
//
// A missing file is fine; a malformed file is logged and ignored.  Command line options always win
// over file defaults, and $SPEC_PATH wins over the [spec] root setting.

package common

import (
	"errors"
	"os"
	"path"

	ini "github.com/lars-t-hansen/ini"
)

// MT: Constant after initialization
var (
	p     = ini.NewParser()
	store *ini.Store

	specSection     = p.AddSection("spec")
	SpecRootDefault = specSection.AddString("root")

	oneapiSection     = p.AddSection("oneapi")
	OneapiRootDefault = oneapiSection.AddString("root")

	defaultsSection = p.AddSection("defaults")
	TuneDefault     = defaultsSection.AddString("tune")
	CoresDefault    = defaultsSection.AddString("cores")
)

func init() {
	home := os.Getenv("HOME")
	if home == "" {
		return
	}
	fn := path.Join(path.Clean(home), ".specer")
	input, err := os.Open(fn)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			Log.Errorf("Error in trying to open %s: %s", fn, err.Error())
		}
		return
	}
	defer input.Close()
	store, err = p.Parse(input)
	if err != nil {
		Log.Errorf("Error in trying to parse %s: %s", fn, err.Error())
		return
	}
}

func HasDefault(f *ini.Field) bool {
	return store != nil && f.Present(store)
}

// ApplyDefault assigns the file default to *sp if *sp is empty and a default exists, expanding
// environment variables in the value.

func ApplyDefault(sp *string, f *ini.Field) bool {
	if *sp != "" || store == nil || !f.Present(store) {
		return false
	}
	*sp = os.ExpandEnv(f.StringVal(store))
	return true
}
