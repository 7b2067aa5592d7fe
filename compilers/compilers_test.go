package compilers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGccMajor(t *testing.T) {
	expectMajor(t, "gcc (GCC) 11.2.0\nCopyright (C) 2021", 11)
	expectMajor(t, "gcc (Ubuntu 9.4.0-1ubuntu1~20.04.1) 9.4.0", 9)
	expectMajor(t, "GCC (SUSE Linux) 12.3.0", 12)
	if _, ok := parseGccMajor("clang version 17.0.1"); ok {
		t.Fatal("Expected no match for clang output")
	}
	if _, ok := parseGccMajor(""); ok {
		t.Fatal("Expected no match for empty output")
	}
}

func expectMajor(t *testing.T, output string, major int) {
	t.Helper()
	m, ok := parseGccMajor(output)
	if !ok {
		t.Fatalf("Expected a match for %q", output)
	}
	if m != major {
		t.Fatalf("Expected major %d, got %d", major, m)
	}
}

func TestGccInstallRoot(t *testing.T) {
	if r := gccInstallRoot("/usr/bin/gcc"); r != "/usr" {
		t.Fatalf("Expected /usr, got %s", r)
	}
	if r := gccInstallRoot("/opt/gcc-11.2.0/bin/gcc"); r != "/opt/gcc-11.2.0" {
		t.Fatalf("Expected /opt/gcc-11.2.0, got %s", r)
	}
	if r := gccInstallRoot("/opt/rh/devtoolset-9/root/usr/bin/gcc"); r != "/opt/rh/devtoolset-9/root/usr" {
		t.Fatalf("Unexpected root %s", r)
	}
}

func TestFilterEnv(t *testing.T) {
	env := filterEnv([]string{
		"ONEAPI_ROOT=/opt/intel/oneapi",
		"MKLROOT=/opt/intel/oneapi/mkl/latest",
		"LD_LIBRARY_PATH=/opt/intel/oneapi/lib",
		"PATH=/usr/bin",
		"HOME=/home/bench",
		"SHELL=/bin/bash",
		"malformed line with no equals",
		"",
	})
	for _, want := range []string{"ONEAPI_ROOT", "MKLROOT", "LD_LIBRARY_PATH", "PATH"} {
		if _, found := env[want]; !found {
			t.Fatalf("Expected %s to be retained", want)
		}
	}
	for _, unwanted := range []string{"HOME", "SHELL"} {
		if _, found := env[unwanted]; found {
			t.Fatalf("Expected %s to be dropped", unwanted)
		}
	}
	if env["ONEAPI_ROOT"] != "/opt/intel/oneapi" {
		t.Fatalf("Bad value %s", env["ONEAPI_ROOT"])
	}
}

func TestWalkUpForRoot(t *testing.T) {
	tempdir, err := os.MkdirTemp("", "oneapi_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tempdir)

	root := filepath.Join(tempdir, "intel", "oneapi")
	inner := filepath.Join(root, "compiler", "2024.0", "bin")
	if err := os.MkdirAll(inner, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "setvars.sh"), []byte("#!/bin/sh\n"), 0700); err != nil {
		t.Fatal(err)
	}

	got, found := walkUpForRoot(inner, 6)
	if !found {
		t.Fatal("Expected to find root from inner directory")
	}
	if got != root {
		t.Fatalf("Expected %s, got %s", root, got)
	}

	// The walk is bounded: two levels are not enough to reach the root from inner.
	if _, found := walkUpForRoot(inner, 2); found {
		t.Fatal("Expected bounded walk to miss the root")
	}

	// A directory named oneapi without setvars.sh is not a root.
	bare := filepath.Join(tempdir, "other", "oneapi")
	if err := os.MkdirAll(bare, 0700); err != nil {
		t.Fatal(err)
	}
	if isOneapiRoot(bare) {
		t.Fatal("Expected oneapi dir without setvars.sh to be rejected")
	}
}
