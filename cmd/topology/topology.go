// The topology verb: display the NUMA node/CPU map so users can pick sensible -numa-node and
// -cpu-cores values.

package topology

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"specer/cmd"
	"specer/runcpu"
)

type TopologyCommand struct {
	cmd.VerboseArgs
}

var _ = cmd.Command((*TopologyCommand)(nil))

var (
	headingColor = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgCyan)
	valueColor   = color.New(color.FgGreen)
)

func (tc *TopologyCommand) Summary() []string {
	return []string{
		"Display NUMA topology and CPU information.",
		"Useful for choosing -numa-node and -cpu-cores values.",
	}
}

func (tc *TopologyCommand) Add(cli *cmd.CLI) {
	tc.VerboseArgs.Add(cli)
}

func (tc *TopologyCommand) Validate() error {
	return tc.VerboseArgs.Validate()
}

func (tc *TopologyCommand) Perform(stdout, stderr io.Writer) error {
	topo := runcpu.QueryTopology()
	if topo == nil {
		fmt.Fprintln(stderr, "NUMA topology not available")
		fmt.Fprintln(stderr, "Possible reasons:")
		fmt.Fprintln(stderr, "  - numactl is not installed")
		fmt.Fprintln(stderr, "  - System does not support NUMA")
		fmt.Fprintln(stderr, "  - No NUMA nodes configured")
		return errors.New("numactl --hardware reported no nodes")
	}

	headingColor.Fprintln(stdout, "NUMA Topology")
	fmt.Fprintf(stdout, "  %s %s\n", labelColor.Sprint("Total NUMA nodes:"),
		valueColor.Sprint(len(topo.Nodes)))
	fmt.Fprintf(stdout, "  %s %s\n", labelColor.Sprint("Available nodes: "),
		valueColor.Sprintf("%v", topo.Nodes))
	fmt.Fprintf(stdout, "  %s %s\n", labelColor.Sprint("Total CPU cores: "),
		valueColor.Sprint(topo.TotalCPUs))

	if tc.Verbose {
		fmt.Fprintln(stdout)
		headingColor.Fprintln(stdout, "Nodes")
		for _, node := range topo.Nodes {
			cpus := topo.NodeCPUs[node]
			fmt.Fprintf(stdout, "  node %d: %s (%d cores)\n",
				node, valueColor.Sprint(cpuRange(cpus)), len(cpus))
		}
	}

	if len(topo.Nodes) > 0 {
		node0 := topo.Nodes[0]
		fmt.Fprintln(stdout)
		headingColor.Fprintln(stdout, "Usage examples")
		fmt.Fprintf(stdout, "  specer run gcc -numa-node %d\n", node0)
		if cpus := topo.NodeCPUs[node0]; len(cpus) > 0 {
			fmt.Fprintf(stdout, "  specer run gcc -cpu-cores %s\n", cpuRange(cpus))
			fmt.Fprintf(stdout, "  specer run gcc -numa-node %d -cpu-cores %s\n", node0, cpuRange(cpus))
		}
	}
	return nil
}

// cpuRange abbreviates long CPU lists to first-last.

func cpuRange(cpus []int) string {
	switch {
	case len(cpus) == 0:
		return ""
	case len(cpus) == 1:
		return fmt.Sprint(cpus[0])
	case len(cpus) <= 8:
		s := fmt.Sprint(cpus[0])
		for _, c := range cpus[1:] {
			s += fmt.Sprintf(",%d", c)
		}
		return s
	default:
		return fmt.Sprintf("%d-%d", cpus[0], cpus[len(cpus)-1])
	}
}
