package cmd

import (
	"io"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Interfaces that the various commands can implement to respond to various situations.

type SetRestArgumentsAPI interface {
	// Install any left-over arguments into the arguments object
	SetRestArguments(args []string)
}

var _ = SetRestArgumentsAPI((*NamingArgs)(nil))

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Any command must be able to define and validate its command line args and then perform itself.

type Command interface {
	// Documentation, one line per element
	Summary() []string

	// Add all arguments including shared arguments
	Add(cli *CLI)

	// Validate all arguments including shared arguments
	Validate() error

	// The -v flag
	VerboseFlag() bool

	// Run the operation
	Perform(stdout, stderr io.Writer) error
}
