package compilers

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"specer/common"
	"specer/process"
)

// Version output looks like "gcc (GCC) 11.2.0" or "gcc (Ubuntu 9.4.0-1ubuntu1~20.04.1) 9.4.0"; the
// first X.Y.Z after "gcc" is the one we want.
var gccVersionRe = regexp.MustCompile(`(?i)gcc.*?(\d+)\.(\d+)\.(\d+)`)

// DetectGccVersion returns the major version of the gcc on PATH, or false if there is no gcc or
// its version output cannot be understood.

func DetectGccVersion() (int, bool) {
	binPath, ok := whichGcc()
	if !ok {
		return 0, false
	}
	out, _, err := process.RunTimeout(probeTimeout, binPath, "--version")
	if err != nil {
		return 0, false
	}
	return parseGccMajor(out)
}

func parseGccMajor(versionOutput string) (int, bool) {
	m := gccVersionRe.FindStringSubmatch(versionOutput)
	if m == nil {
		return 0, false
	}
	major, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return major, true
}

// DetectGccRoot returns the GCC installation root, derived from the binary's location by stripping
// the trailing "gcc" and "bin" components: /usr/bin/gcc -> /usr.  SPEC configs want this root to
// find GCC's libraries and headers.

func DetectGccRoot() (string, bool) {
	binPath, ok := whichGcc()
	if !ok {
		common.Log.Debugf("gcc not found in PATH")
		return "", false
	}
	common.Log.Debugf("Found gcc binary at %s", binPath)
	return gccInstallRoot(binPath), true
}

func gccInstallRoot(binPath string) string {
	return filepath.Dir(filepath.Dir(binPath))
}

func whichGcc() (string, bool) {
	out, _, err := process.RunTimeout(probeTimeout, "which", "gcc")
	if err != nil {
		return "", false
	}
	binPath := strings.TrimSpace(out)
	if binPath == "" {
		return "", false
	}
	return binPath, true
}
