// Intel oneAPI sections for the generated config.
//
// The template is GCC-throughout, so Intel mode appends its own suite sections rather than edit
// GCC's.  Intel compiler usage is deliberately restricted to the floating-point suites: the
// integer suites have known C++ source compatibility problems under icpx, so they always build
// with GCC regardless of what was detected.  Peak tuning reuses base results (basepeak) instead of
// recompiling.

package config

import (
	"os"
	"path/filepath"
	"strings"

	"specer/compilers"
)

const intelSuites = "fprate,fpspeed"

func appendIntelSections(text string, profile compilers.Profile) string {
	binDir := firstExistingDir(profile.OneapiRoot,
		"compiler/latest/bin",
		"compiler/latest/linux/bin/intel64",
		"compiler/latest/linux/bin",
	)
	libDirs := existingDirs(profile.OneapiRoot,
		"compiler/latest/lib",
		"compiler/latest/linux/compiler/lib/intel64_lin",
		"mkl/latest/lib/intel64",
	)
	includeDirs := existingDirs(profile.OneapiRoot,
		"compiler/latest/include",
		"mkl/latest/include",
	)

	cc := intelBinary(binDir, "icx")
	cxx := intelBinary(binDir, "icpx")

	var b strings.Builder
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("# Intel oneAPI toolchain for the floating-point suites (auto-generated).\n")
	b.WriteString("# Integer suites keep the GCC definitions above.\n")
	b.WriteString(intelSuites + "=base:\n")
	b.WriteString("   CC                 = " + cc + " -m64\n")
	b.WriteString("   CXX                = " + cxx + " -m64\n")
	if profile.Fortran {
		b.WriteString("   FC                 = " + intelBinary(binDir, "ifx") + " -m64\n")
	} else {
		b.WriteString("   FC                 = gfortran -m64\n")
	}
	b.WriteString("   CC_VERSION_OPTION  = --version\n")
	b.WriteString("   CXX_VERSION_OPTION = --version\n")
	b.WriteString("   FC_VERSION_OPTION  = --version\n")
	b.WriteString("   OPTIMIZE           = -O3 -xHost -ipo -no-prec-div\n")
	b.WriteString("   COPTIMIZE          = -std=c11\n")
	b.WriteString("   CXXOPTIMIZE        = -std=c++14\n")
	if profile.Fortran {
		b.WriteString("   FOPTIMIZE          = -fno-stack-protector\n")
	}
	for _, dir := range includeDirs {
		b.WriteString("   EXTRA_CFLAGS       = -I" + dir + "\n")
		break
	}
	if len(libDirs) > 0 {
		flags := make([]string, 0, len(libDirs))
		for _, dir := range libDirs {
			flags = append(flags, "-L"+dir)
		}
		b.WriteString("   EXTRA_LDFLAGS      = " + strings.Join(flags, " ") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(intelSuites + "=peak:\n")
	b.WriteString("   basepeak           = yes\n")

	return text + b.String()
}

// intelBinary prefers an on-disk path under the detected root; with no usable bin directory the
// bare name is emitted and the materialized environment's PATH has to resolve it.

func intelBinary(binDir, name string) string {
	if binDir == "" {
		return name
	}
	return filepath.Join(binDir, name)
}

func firstExistingDir(root string, candidates ...string) string {
	for _, rel := range candidates {
		dir := filepath.Join(root, rel)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

func existingDirs(root string, candidates ...string) []string {
	dirs := make([]string, 0, len(candidates))
	for _, rel := range candidates {
		dir := filepath.Join(root, rel)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
