// NUMA topology discovery via numactl, used to validate affinity requests before we hand them to
// the kernel.

package runcpu

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"specer/process"
)

type Topology struct {
	Nodes     []int
	NodeCPUs  map[int][]int
	TotalCPUs int
}

func (t *Topology) HasNode(node int) bool {
	for _, n := range t.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

// QueryTopology runs numactl --hardware and extracts the node/CPU map.  nil means NUMA is not
// available here (no numactl, or no nodes reported); that is a condition, not an error.

func QueryTopology() *Topology {
	out, _, err := process.RunTimeout(10*time.Second, "numactl", "--hardware")
	if err != nil {
		return nil
	}
	return parseTopology(out)
}

// Lines of interest look like "node 0 cpus: 0 1 2 3 4 5".

func parseTopology(text string) *Topology {
	topo := &Topology{NodeCPUs: make(map[int][]int)}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "node ") || !strings.Contains(line, " cpus:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		node, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		var cpus []int
		seen := false
		for _, f := range fields {
			if seen {
				if cpu, err := strconv.Atoi(f); err == nil {
					cpus = append(cpus, cpu)
				}
			} else if f == "cpus:" {
				seen = true
			}
		}
		topo.Nodes = append(topo.Nodes, node)
		topo.NodeCPUs[node] = cpus
		for _, cpu := range cpus {
			if cpu+1 > topo.TotalCPUs {
				topo.TotalCPUs = cpu + 1
			}
		}
	}
	if len(topo.Nodes) == 0 {
		return nil
	}
	sort.Ints(topo.Nodes)
	return topo
}
