package benchmarks

import (
	"testing"
)

func TestResolveAliases(t *testing.T) {
	for alias, v := range mapping {
		got := Resolve([]string{alias}, true, false)
		if len(got) != 1 || got[0] != v.speed {
			t.Fatalf("Expected %s, got %v", v.speed, got)
		}
		got = Resolve([]string{alias}, false, true)
		if len(got) != 1 || got[0] != v.rate {
			t.Fatalf("Expected %s, got %v", v.rate, got)
		}
		// Speed wins when no preference applies
		got = Resolve([]string{alias}, false, false)
		if got[0] != v.speed {
			t.Fatalf("Expected default %s, got %s", v.speed, got[0])
		}
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	got := Resolve([]string{"GCC"}, false, true)
	if got[0] != "502.gcc_r" {
		t.Fatalf("Expected 502.gcc_r, got %s", got[0])
	}
	got = Resolve([]string{"CactuBSSN"}, true, false)
	if got[0] != "607.cactuBSSN_s" {
		t.Fatalf("Expected 607.cactuBSSN_s, got %s", got[0])
	}
}

func TestResolvePassthrough(t *testing.T) {
	// Full ids, suite keywords, and unknown names are the identity
	for _, name := range []string{
		"502.gcc_r", "602.gcc_s", "519.lbm_r", "999.notreal_r",
		"intrate", "FPSPEED", "all",
		"no-such-benchmark",
	} {
		got := Resolve([]string{name}, true, false)
		if got[0] != name {
			t.Fatalf("Expected %s unchanged, got %s", name, got[0])
		}
	}
}

func TestDetectSuitePreference(t *testing.T) {
	check := func(names []string, speed, rate bool) {
		s, r := DetectSuitePreference(names)
		if s != speed || r != rate {
			t.Fatalf("DetectSuitePreference(%v): expected (%v,%v), got (%v,%v)",
				names, speed, rate, s, r)
		}
	}
	check([]string{"602.gcc_s", "intspeed"}, true, false)
	check([]string{"502.gcc_r", "fprate"}, false, true)
	check([]string{"602.gcc_s", "519.lbm_r"}, false, false) // tie
	check([]string{"gcc", "lbm"}, false, false)             // no signals
	check([]string{"intrate"}, false, true)
}

func TestRateSpeedClassification(t *testing.T) {
	if !IsRate("502.gcc_r") || !IsRate("intrate") || IsRate("602.gcc_s") {
		t.Fatal("IsRate misclassification")
	}
	if !IsSpeed("602.gcc_s") || !IsSpeed("fpspeed") || IsSpeed("502.gcc_r") {
		t.Fatal("IsSpeed misclassification")
	}
}
