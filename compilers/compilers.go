// Read-only probing of host toolchains (GCC and Intel oneAPI) for config generation.
//
// Everything here is best-effort: a missing binary, a failing probe, or a timeout means "not
// detected", never an error.  Detection is re-run on every config generation; it is slow but it is
// never stale.

package compilers

import "time"

type Kind int

const (
	KindNone Kind = iota
	KindGcc
	KindIntel
)

func (k Kind) String() string {
	switch k {
	case KindGcc:
		return "gcc"
	case KindIntel:
		return "intel"
	default:
		return "none"
	}
}

// Profile holds the facts detected about a toolchain.  Constructed fresh per call, never cached.

type Profile struct {
	Kind Kind

	// GCC facts, valid when Kind == KindGcc
	GccMajor int    // 0 when the version probe failed
	GccRoot  string // "" when the path probe failed

	// Intel facts, valid when Kind == KindIntel
	OneapiRoot string
	Env        map[string]string // materialized setvars.sh environment
	Fortran    bool              // ifx present and responding
}

const probeTimeout = 5 * time.Second
