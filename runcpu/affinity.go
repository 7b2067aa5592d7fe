// NUMA/CPU affinity wrapping: prefix the runcpu command with numactl (preferred) or taskset
// (fallback, CPU binding only).  No tool available means the command runs unpinned, with a
// warning.

package runcpu

import (
	"os/exec"
	"regexp"
	"strconv"

	"specer/common"
)

// Note that node 0 is a real binding, so the zero value of this struct requests one; use
// NoAffinity for "run unpinned".

type Affinity struct {
	Node     int    // NUMA node to bind to; -1 for none
	Cores    string // CPU list on numactl/taskset syntax ("0-3", "0,2,4"); "" for none
	NoMemory bool   // suppress the default memory binding that comes with Node
}

func NoAffinity() Affinity {
	return Affinity{Node: -1}
}

func (a Affinity) Requested() bool {
	return a.Node >= 0 || a.Cores != ""
}

var coreListRe = regexp.MustCompile(`^[\d\-, ]+$`)

// ValidCoreList is a shallow syntax check; numactl and taskset do the real validation.

func ValidCoreList(cores string) bool {
	return coreListRe.MatchString(cores)
}

// Wrap prefixes base with the affinity binding.  The choice of tool is probed here; wrapWith
// carries the pure logic.

func Wrap(base []string, aff Affinity) []string {
	if !aff.Requested() {
		return base
	}
	_, numactlErr := exec.LookPath("numactl")
	_, tasksetErr := exec.LookPath("taskset")
	return wrapWith(base, aff, numactlErr == nil, tasksetErr == nil)
}

func wrapWith(base []string, aff Affinity, haveNumactl, haveTaskset bool) []string {
	switch {
	case haveNumactl:
		wrapper := []string{"numactl"}
		if aff.Node >= 0 {
			node := strconv.Itoa(aff.Node)
			wrapper = append(wrapper, "--cpunodebind", node)
			if !aff.NoMemory {
				wrapper = append(wrapper, "--membind", node)
			}
		}
		if aff.Cores != "" {
			wrapper = append(wrapper, "--physcpubind", aff.Cores)
		}
		wrapper = append(wrapper, "--")
		return append(wrapper, base...)
	case haveTaskset && aff.Cores != "":
		return append([]string{"taskset", "-c", aff.Cores}, base...)
	default:
		common.Log.Warningf("Neither numactl nor taskset available for CPU affinity")
		return base
	}
}
