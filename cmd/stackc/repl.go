package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"stackc/internal/diag"
	"stackc/lexer"
	"stackc/parser"
	"stackc/token"
	"stackc/vm"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"
)

// replCmd is an interactive, multi-line compile-and-run loop. Each
// accepted line is re-lexed and re-parsed as its own whole program, driven
// through the same compile-time-evaluation-then-translate pipeline as
// runCmd, and executed on a fresh VM.
type replCmd struct {
	debug bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive compile-and-run session" }
func (*replCmd) Usage() string {
	return `repl [-d]:
  Start an interactive session. Input is buffered until braces balance and
  the last token doesn't leave an expression dangling.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.debug, "d", false, "trace every instruction executed")
}

func (cmd *replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      ">>> ",
		HistoryFile: "/tmp/stackc_history",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 failed to start readline: %v\n", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	fmt.Fprintln(os.Stdout, "stackc interactive session. Ctrl-D or \"exit\" to quit.")

	var buffer strings.Builder
	for {
		if buffer.Len() == 0 {
			rl.SetPrompt(">>> ")
		} else {
			rl.SetPrompt("... ")
		}

		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "💥 %v\n", err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		lex := lexer.New(source)
		tokens, err := lex.Scan()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			buffer.Reset()
			continue
		}

		if !isInputReady(tokens) {
			continue
		}

		p := parser.Make(tokens)
		root, parseErrs := p.Parse()
		if len(parseErrs) > 0 {
			if allParseErrorsAtEOF(parseErrs, tokens[len(tokens)-1]) {
				continue
			}
			for _, pErr := range parseErrs {
				fmt.Fprintln(os.Stderr, pErr)
			}
			buffer.Reset()
			continue
		}

		_, img, err := compileRoot(root)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			buffer.Reset()
			continue
		}

		machine := vm.New(img)
		machine.Debug = cmd.debug
		if _, err := machine.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		buffer.Reset()
	}
}

// isInputReady reports whether the buffered tokens form a complete program:
// braces balanced, and the last non-EOF token doesn't leave something
// dangling (a trailing operator, an open keyword expecting a body).
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		}
	}
	if braceBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV,
		token.BANG, token.EQUAL_EQUAL, token.NOT_EQUAL,
		token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL,
		token.COMMA, token.LPA, token.LCUR, token.COLON, token.ARROW,
		token.IF, token.ELSE, token.WHILE, token.FUNC, token.STRUCT,
		token.ENUM, token.RETURN, token.VAR, token.AND, token.OR,
		token.PRINT, token.AT, token.DOT:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error is positioned
// exactly at the EOF token, meaning the user simply hasn't finished typing
// yet rather than having written something invalid.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	for _, parseErr := range parseErrs {
		semErr, ok := parseErr.(diag.SemanticError)
		if !ok {
			return false
		}
		if semErr.Pos.Line != eof.Line || semErr.Pos.Column != eof.Column {
			return false
		}
	}
	return len(parseErrs) > 0
}
