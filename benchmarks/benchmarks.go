// Benchmark name resolution.
//
// Users name benchmarks in three ways: a short alias ("gcc", "lbm"), a full SPEC CPU 2017
// identifier ("502.gcc_r"), or a suite keyword ("intrate", "all").  runcpu accepts only the latter
// two, so aliases are mapped through a fixed table with a speed variant and a rate variant per
// alias.  Unknown names pass through untouched; runcpu gives better diagnostics for those than we
// could.

package benchmarks

import "strings"

type variants struct {
	speed string
	rate  string
}

// MT: Constant after initialization
var mapping = map[string]variants{
	"perlbench": {"600.perlbench_s", "500.perlbench_r"},
	"gcc":       {"602.gcc_s", "502.gcc_r"},
	"mcf":       {"605.mcf_s", "505.mcf_r"},
	"omnetpp":   {"620.omnetpp_s", "520.omnetpp_r"},
	"xalancbmk": {"623.xalancbmk_s", "523.xalancbmk_r"},
	"x264":      {"625.x264_s", "525.x264_r"},
	"deepsjeng": {"631.deepsjeng_s", "531.deepsjeng_r"},
	"leela":     {"641.leela_s", "541.leela_r"},
	"exchange2": {"648.exchange2_s", "548.exchange2_r"},
	"xz":        {"657.xz_s", "557.xz_r"},
	"bwaves":    {"603.bwaves_s", "503.bwaves_r"},
	"cactubssn": {"607.cactuBSSN_s", "507.cactuBSSN_r"},
	"lbm":       {"619.lbm_s", "519.lbm_r"},
	"wrf":       {"621.wrf_s", "521.wrf_r"},
	"cam4":      {"627.cam4_s", "527.cam4_r"},
	"pop2":      {"628.pop2_s", "528.pop2_r"},
	"imagick":   {"638.imagick_s", "538.imagick_r"},
	"nab":       {"644.nab_s", "544.nab_r"},
	"fotonik3d": {"649.fotonik3d_s", "549.fotonik3d_r"},
	"roms":      {"654.roms_s", "554.roms_r"},
}

// MT: Constant after initialization
var suiteKeywords = map[string]bool{
	"intspeed":  true,
	"fpspeed":   true,
	"specspeed": true,
	"intrate":   true,
	"fprate":    true,
	"specrate":  true,
	"all":       true,
}

// A full SPEC id has the shape NNN.name with a digit somewhere before the first dot.

func isFullId(name string) bool {
	dot := strings.IndexByte(name, '.')
	if dot <= 0 {
		return false
	}
	for _, c := range name[:dot] {
		if c >= '0' && c <= '9' {
			return true
		}
	}
	return false
}

func IsSuiteKeyword(name string) bool {
	return suiteKeywords[strings.ToLower(name)]
}

// Resolve maps every alias in names to its speed or rate variant; full ids, suite keywords, and
// unknown names pass through unchanged.  At most one of preferSpeed and preferRate is true; with
// neither, the speed variant wins.

func Resolve(names []string, preferSpeed, preferRate bool) []string {
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		if isFullId(name) || IsSuiteKeyword(name) {
			resolved = append(resolved, name)
			continue
		}
		if v, found := mapping[strings.ToLower(name)]; found {
			if preferRate {
				resolved = append(resolved, v.rate)
			} else {
				resolved = append(resolved, v.speed)
			}
			continue
		}
		resolved = append(resolved, name)
	}
	return resolved
}

// DetectSuitePreference infers a speed/rate preference from names that are already qualified.  A
// name carrying "_s" or "speed" is a speed signal, one carrying "_r" or "rate" is a rate signal; a
// name matching both counts as speed only.  The result is a strict majority in each direction, so
// a tie yields (false, false).

func DetectSuitePreference(names []string) (preferSpeed, preferRate bool) {
	speedCount := 0
	rateCount := 0
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(name, "_s") || strings.Contains(lower, "speed") {
			speedCount++
		} else if strings.Contains(name, "_r") || strings.Contains(lower, "rate") {
			rateCount++
		}
	}
	return speedCount > rateCount, rateCount > speedCount
}

// IsRate and IsSpeed classify resolved names for the --cores mapping in the run command.

func IsRate(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(name, "_r") ||
		lower == "intrate" || lower == "fprate" || lower == "specrate"
}

func IsSpeed(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(name, "_s") ||
		lower == "intspeed" || lower == "fpspeed" || lower == "specspeed"
}
