// Intel oneAPI detection.
//
// There is no single reliable way to find a oneAPI installation, so we try a short ordered list of
// independent probes and take the first hit: the icx binary's location, the ONEAPI_ROOT variable,
// a few conventional install locations, and finally any PATH entry that looks Intel-ish.  A root
// is only believed if it contains setvars.sh.

package compilers

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"specer/common"
	"specer/process"
)

const setvarsTimeout = 30 * time.Second

// Environment variables worth keeping from a setvars.sh run; anything whose name contains one of
// these substrings is retained, the rest is noise.
var envAllowList = []string{
	"INTEL", "ONEAPI", "MKLROOT", "TBBROOT", "DAALROOT", "IPPROOT",
	"CPATH", "LIBRARY_PATH", "LD_LIBRARY_PATH", "PATH",
}

// DetectOneapiRoot tries the probes in order and returns the first root found.  explicitRoot, when
// nonempty, short-circuits the search (it comes from the command line or the settings file).

func DetectOneapiRoot(explicitRoot string) (string, bool) {
	if explicitRoot != "" {
		if isOneapiRoot(explicitRoot) {
			return explicitRoot, true
		}
		common.Log.Warningf("Configured oneAPI root %s has no setvars.sh, ignoring", explicitRoot)
	}
	probes := []func() (string, bool){
		probeFromIcx,
		probeFromEnvironment,
		probeKnownLocations,
		probeFromPath,
	}
	for _, probe := range probes {
		if root, found := probe(); found {
			common.Log.Debugf("oneAPI root detected at %s", root)
			return root, true
		}
	}
	common.Log.Warningf("Intel oneAPI installation not found")
	return "", false
}

// A believable oneAPI root is a directory named "oneapi" containing setvars.sh.

func isOneapiRoot(dir string) bool {
	if filepath.Base(dir) != "oneapi" {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, "setvars.sh"))
	return err == nil && !info.IsDir()
}

// Walk parents of start looking for a oneAPI root, visiting at most levels directories.

func walkUpForRoot(start string, levels int) (string, bool) {
	dir := start
	for i := 0; i < levels; i++ {
		if isOneapiRoot(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func probeFromIcx() (string, bool) {
	binPath, err := exec.LookPath("icx")
	if err != nil {
		return "", false
	}
	return walkUpForRoot(filepath.Dir(binPath), 6)
}

func probeFromEnvironment() (string, bool) {
	root := os.Getenv("ONEAPI_ROOT")
	if root == "" || !isOneapiRoot(root) {
		return "", false
	}
	return root, true
}

func probeKnownLocations() (string, bool) {
	candidates := []string{
		"/opt/intel/oneapi",
		"/usr/local/intel/oneapi",
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, "intel", "oneapi"))
	}
	for _, dir := range candidates {
		if isOneapiRoot(dir) {
			return dir, true
		}
	}
	return "", false
}

func probeFromPath() (string, bool) {
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		lower := strings.ToLower(entry)
		if !strings.Contains(lower, "intel") && !strings.Contains(lower, "oneapi") {
			continue
		}
		if root, found := walkUpForRoot(entry, 5); found {
			return root, true
		}
	}
	return "", false
}

// MaterializeEnv runs setvars.sh --force in a subshell and captures the environment it produces,
// keeping only the allow-listed variables.  Any failure, including timeout, yields an empty map.

func MaterializeEnv(root string) map[string]string {
	setvars := filepath.Join(root, "setvars.sh")
	script := "source '" + setvars + "' --force >/dev/null 2>&1 && env"
	out, _, err := process.RunTimeout(setvarsTimeout, "bash", "-c", script)
	if err != nil {
		common.Log.Warningf("Could not materialize oneAPI environment: %v", err)
		return map[string]string{}
	}
	return filterEnv(strings.Split(out, "\n"))
}

func filterEnv(lines []string) map[string]string {
	env := make(map[string]string)
	for _, line := range lines {
		name, value, found := strings.Cut(line, "=")
		if !found || name == "" {
			continue
		}
		for _, substr := range envAllowList {
			if strings.Contains(name, substr) {
				env[name] = value
				break
			}
		}
	}
	return env
}

// ValidateCompilers confirms that icx and icpx respond to --version under the materialized
// environment.  ifx is optional: its absence only downgrades Fortran support.

func ValidateCompilers(env map[string]string) (fortran bool, ok bool) {
	childEnv := mergedEnv(env)
	if !compilerResponds("icx", childEnv) || !compilerResponds("icpx", childEnv) {
		return false, false
	}
	return compilerResponds("ifx", childEnv), true
}

func compilerResponds(name string, childEnv []string) bool {
	_, _, err := process.RunTimeoutEnv(probeTimeout, childEnv, name, "--version")
	return err == nil
}

// The materialized variables are layered over the current process environment so that the child
// can still resolve basics like HOME.

func mergedEnv(env map[string]string) []string {
	merged := make(map[string]string)
	for _, kv := range os.Environ() {
		if name, value, found := strings.Cut(kv, "="); found {
			merged[name] = value
		}
	}
	for name, value := range env {
		merged[name] = value
	}
	out := make([]string, 0, len(merged))
	for name, value := range merged {
		out = append(out, name+"="+value)
	}
	return out
}

// DetectIntel runs the full Intel pipeline: root discovery, environment materialization, compiler
// validation.  It returns a complete profile or nothing.

func DetectIntel(explicitRoot string) (Profile, bool) {
	root, found := DetectOneapiRoot(explicitRoot)
	if !found {
		return Profile{}, false
	}
	env := MaterializeEnv(root)
	fortran, ok := ValidateCompilers(env)
	if !ok {
		common.Log.Warningf("oneAPI found at %s but icx/icpx did not validate", root)
		return Profile{}, false
	}
	if !fortran {
		common.Log.Infof("ifx not found; Fortran benchmarks will not use the Intel compiler")
	}
	return Profile{
		Kind:       KindIntel,
		OneapiRoot: root,
		Env:        env,
		Fortran:    fortran,
	}, true
}

// DetectGcc returns a GCC profile; version and root may independently be missing.

func DetectGcc() Profile {
	p := Profile{Kind: KindGcc}
	if major, ok := DetectGccVersion(); ok {
		p.GccMajor = major
	}
	if root, ok := DetectGccRoot(); ok {
		p.GccRoot = root
	}
	return p
}
