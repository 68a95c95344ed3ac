package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"stackc/disasm"

	"github.com/google/subcommands"
)

// disasmCmd compiles a source file and prints its disassembly without
// running it.
type disasmCmd struct {
	out string
}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile a source file and print its disassembly" }
func (*disasmCmd) Usage() string {
	return `disasm [-o file] <file>:
  Compile a source file and print the resulting bytecode listing.
`
}

func (cmd *disasmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.out, "o", "", "write the listing to this file instead of stdout")
}

func (cmd *disasmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	source := string(data)

	_, img, err := compile(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	listing := disasm.Disassemble(img, source)
	if cmd.out == "" {
		fmt.Fprint(os.Stdout, listing)
		return subcommands.ExitSuccess
	}

	if err := os.WriteFile(cmd.out, []byte(listing), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to write listing: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
