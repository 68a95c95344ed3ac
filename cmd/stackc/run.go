package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stackc/vm"

	"github.com/google/subcommands"
)

// runCmd compiles a source file end to end and executes it on a fresh VM.
type runCmd struct {
	debug bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and run a source file" }
func (*runCmd) Usage() string {
	return `run [-d] <file>:
  Compile a source file, resolve every compile-time call, and execute it.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.debug, "d", false, "trace every instruction executed")
}

func (cmd *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 file not provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	_, img, err := compile(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	machine := vm.New(img)
	machine.Debug = cmd.debug
	if _, err := machine.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
