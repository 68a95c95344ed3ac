// Command stackc is the entry point for the compiler: it registers every
// subcommand (run, repl, disasm, eval) and hands off to the subcommands
// package to dispatch whichever one was invoked.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "stackc")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(&runCmd{}, "")
	commander.Register(&replCmd{}, "")
	commander.Register(&disasmCmd{}, "")
	commander.Register(&evalCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
