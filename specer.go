// `specer` -- a front-end for the SPEC CPU 2017 runcpu tool
//
// Run `specer help` for brief help; each verb accepts -h for its options.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"specer/cmd"
	"specer/cmd/clean"
	"specer/cmd/compile"
	"specer/cmd/install"
	"specer/cmd/run"
	"specer/cmd/setup"
	"specer/cmd/topology"
	"specer/cmd/update"
	"specer/runcpu"
)

func main() {
	err := specer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var xe *runcpu.ExitError
		if errors.As(err, &xe) {
			os.Exit(xe.Code)
		}
		os.Exit(1)
	}
}

func specer() error {
	anyCmd, _ := commandLine()
	return anyCmd.Perform(os.Stdout, os.Stderr)
}

func commandLine() (cmd.Command, string) {
	out := flag.CommandLine.Output()

	if len(os.Args) < 2 {
		fmt.Fprintf(out, "Required operation missing, try `specer help`\n")
		os.Exit(2)
	}

	var command cmd.Command
	var verb = os.Args[1]
	switch verb {
	case "help", "-h", "--help":
		fmt.Fprintf(out, "Usage: %s command [options] [benchmark ...]\n", os.Args[0])
		fmt.Fprintf(out, "Commands:\n")
		fmt.Fprintf(out, "  run      - build and run benchmarks\n")
		fmt.Fprintf(out, "  compile  - build benchmarks without running them\n")
		fmt.Fprintf(out, "  setup    - extract and prepare benchmark sources\n")
		fmt.Fprintf(out, "  clean    - remove benchmark build directories\n")
		fmt.Fprintf(out, "  update   - update the SPEC installation\n")
		fmt.Fprintf(out, "  install  - install SPEC CPU 2017 from an ISO\n")
		fmt.Fprintf(out, "  topology - display NUMA topology information\n")
		fmt.Fprintf(out, "  version  - print information about the program\n")
		fmt.Fprintf(out, "  help     - print this message\n")
		fmt.Fprintf(out, "Each command accepts -h to further explain options.\n")
		os.Exit(0)
	case "run":
		command = new(run.RunCommand)
	case "compile", "build":
		command = new(compile.CompileCommand)
		verb = "compile"
	case "setup":
		command = new(setup.SetupCommand)
	case "clean":
		command = new(clean.CleanCommand)
	case "update":
		command = new(update.UpdateCommand)
	case "install":
		command = new(install.InstallCommand)
	case "topology":
		command = new(topology.TopologyCommand)
	case "version":
		fmt.Printf("specer version %s\n", cmd.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(out, "Unknown operation `%s`, try `specer help`\n", verb)
		os.Exit(2)
	}

	cli := cmd.NewCLI(verb, command, os.Args[0], true)
	command.Add(cli)
	cli.Parse(os.Args[2:])

	rest := cli.Args()
	if len(rest) > 0 {
		if raCmd, ok := command.(cmd.SetRestArgumentsAPI); ok {
			raCmd.SetRestArguments(rest)
		} else {
			fmt.Fprintf(out, "Rest arguments not accepted by `%s`.\n", verb)
			os.Exit(2)
		}
	}

	err := command.Validate()
	if err != nil {
		fmt.Fprintf(out, "Bad arguments, try -h\n%v\n", err.Error())
		os.Exit(2)
	}

	return command, verb
}
