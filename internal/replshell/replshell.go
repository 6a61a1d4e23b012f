// Package replshell implements an interactive line-at-a-time shell for
// exploring the lexer, grammar, and FIRST/FOLLOW/predict sets without
// running a full compile, grounded on the teacher's InteractiveCommandReader
// (internal/input) which wraps the same chzyer/readline library for
// history-enabled, escape-sequence-clean stdin reading.
package replshell

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/tableprint"
)

// Shell is a readline-backed REPL bound to a fixed grammar and its
// precomputed FIRST/FOLLOW/predict analysis.
type Shell struct {
	rl *readline.Instance
	g  grammar.Grammar
	a  *grammar.Analysis
	out io.Writer
}

// New builds a Shell over g/a, reading from stdin and writing to out.
func New(g grammar.Grammar, a *grammar.Analysis, out io.Writer) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "minic> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &Shell{rl: rl, g: g, a: a, out: out}, nil
}

// Close releases the underlying readline terminal resources.
func (s *Shell) Close() error {
	return s.rl.Close()
}

// Run reads commands until EOF (Ctrl-D) or an "exit"/"quit" command,
// dispatching each line to the matching built-in.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "minic repl - type 'help' for commands, Ctrl-D to exit")
	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		if err := s.dispatch(line); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
}

func (s *Shell) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd := fields[0]
	rest := fields[1:]

	switch cmd {
	case "help":
		s.help()
	case "tokens":
		return s.tokens(strings.TrimPrefix(line, cmd+" "))
	case "grammar":
		fmt.Fprint(s.out, tableprint.Grammar(s.g))
	case "first":
		return s.firstFollow(rest, func(nt string) string { return s.a.First(nt).StringOrdered() })
	case "follow":
		return s.firstFollow(rest, func(nt string) string { return s.a.Follow(nt).StringOrdered() })
	case "nullable":
		return s.nullable(rest)
	default:
		return fmt.Errorf("unknown command %q; type 'help' for a list", cmd)
	}
	return nil
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, "commands:")
	fmt.Fprintln(s.out, "  tokens <source text>   lex source text and print its tokens")
	fmt.Fprintln(s.out, "  grammar                print the compiled grammar's productions")
	fmt.Fprintln(s.out, "  first <nonterminal>    print FIRST(nonterminal)")
	fmt.Fprintln(s.out, "  follow <nonterminal>   print FOLLOW(nonterminal)")
	fmt.Fprintln(s.out, "  nullable <nonterminal> report whether nonterminal is nullable")
	fmt.Fprintln(s.out, "  exit | quit            leave the shell")
}

func (s *Shell) tokens(src string) error {
	lx := lexer.New(src)
	toks, err := lx.All()
	if err != nil {
		return err
	}
	for _, t := range toks {
		fmt.Fprintln(s.out, t.String())
	}
	return nil
}

func (s *Shell) firstFollow(args []string, lookup func(string) string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one nonterminal name")
	}
	fmt.Fprintln(s.out, lookup(args[0]))
	return nil
}

func (s *Shell) nullable(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one nonterminal name")
	}
	fmt.Fprintln(s.out, s.a.Nullable(args[0]))
	return nil
}
