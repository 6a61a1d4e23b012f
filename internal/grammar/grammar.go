// Package grammar models a context-free grammar as an ordered list of
// productions over terminal/nonterminal/epsilon symbols, loads one from its
// declarative textual form, and computes the FIRST/FOLLOW/emptiness/predict
// analyses an LL(1) parser-table compiler needs.
package grammar

import (
	"fmt"
	"strings"
)

// SymbolKind distinguishes the three kinds of grammar symbol.
type SymbolKind int

const (
	Terminal SymbolKind = iota
	Nonterminal
	EpsilonKind
)

func (k SymbolKind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Nonterminal:
		return "nonterminal"
	case EpsilonKind:
		return "epsilon"
	default:
		return "unknown"
	}
}

// Symbol is a single symbol on the right-hand side of a production. Action
// is the name of the semantic action tag bound to this symbol, or "" if
// none is bound.
type Symbol struct {
	Text   string
	Kind   SymbolKind
	Action string
}

func (s Symbol) String() string {
	switch s.Kind {
	case EpsilonKind:
		return "#Eps#"
	case Nonterminal:
		return "<" + s.Text + ">"
	default:
		return s.Text
	}
}

// IsEpsilon reports whether s is the epsilon symbol.
func (s Symbol) IsEpsilon() bool { return s.Kind == EpsilonKind }

// Production is one right-hand side for a nonterminal, i.e. LHS -> RHS.
type Production struct {
	LHS string
	RHS []Symbol
}

// IsEpsilon reports whether this production's sole RHS symbol is epsilon.
func (p Production) IsEpsilon() bool {
	return len(p.RHS) == 1 && p.RHS[0].IsEpsilon()
}

func (p Production) String() string {
	parts := make([]string, len(p.RHS))
	for i, s := range p.RHS {
		parts[i] = s.String()
	}
	return fmt.Sprintf("<%s> -> %s", p.LHS, strings.Join(parts, " "))
}

// Grammar is an ordered list of productions. By convention and per the
// textual loader's invariant-check, the first production's LHS is the start
// nonterminal and its RHS's last symbol is the terminal naming the
// end-of-input token.
type Grammar struct {
	Productions []Production
}

// StartSymbol returns the LHS of the first production.
func (g Grammar) StartSymbol() string {
	if len(g.Productions) == 0 {
		return ""
	}
	return g.Productions[0].LHS
}

// EndTerminal returns the terminal naming the end-of-input token: the last
// RHS symbol of the first production.
func (g Grammar) EndTerminal() string {
	if len(g.Productions) == 0 {
		return ""
	}
	rhs := g.Productions[0].RHS
	if len(rhs) == 0 {
		return ""
	}
	return rhs[len(rhs)-1].Text
}

// ProductionsFor returns, in source order, every production whose LHS is nt.
func (g Grammar) ProductionsFor(nt string) []Production {
	var out []Production
	for _, p := range g.Productions {
		if p.LHS == nt {
			out = append(out, p)
		}
	}
	return out
}

// NonTerminals returns every distinct nonterminal that appears as an LHS, in
// first-appearance order.
func (g Grammar) NonTerminals() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range g.Productions {
		if !seen[p.LHS] {
			seen[p.LHS] = true
			out = append(out, p.LHS)
		}
	}
	return out
}

// referencedNonTerminals returns every nonterminal referenced anywhere in a
// RHS, in first-appearance order.
func (g Grammar) referencedNonTerminals() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range g.Productions {
		for _, s := range p.RHS {
			if s.Kind == Nonterminal && !seen[s.Text] {
				seen[s.Text] = true
				out = append(out, s.Text)
			}
		}
	}
	return out
}

// Terminals returns every distinct terminal name referenced anywhere in the
// grammar's productions (action-only markers and epsilon excluded), in
// first-appearance order. The driver does not check these names against the
// lexer's token kinds.
func (g Grammar) Terminals() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range g.Productions {
		for _, s := range p.RHS {
			if s.Kind == Terminal && !seen[s.Text] {
				seen[s.Text] = true
				out = append(out, s.Text)
			}
		}
	}
	return out
}

// ActionTags returns every distinct action tag name bound anywhere in the
// grammar, in first-appearance order. Used by the driver to cross-check
// that every tag the grammar names has a bound builder handler (spec.md
// §4.A, §7 InternalGrammarError).
func (g Grammar) ActionTags() []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range g.Productions {
		for _, s := range p.RHS {
			if s.Action != "" && !seen[s.Action] {
				seen[s.Action] = true
				out = append(out, s.Action)
			}
		}
	}
	return out
}

// Validate checks the grammar-level invariants spec.md §3 names: there is at
// least one production; the first production's RHS ends with a terminal
// (the end-of-input token); and every nonterminal referenced on some RHS
// also appears as some LHS.
func (g Grammar) Validate() error {
	if len(g.Productions) == 0 {
		return fmt.Errorf("grammar has no productions")
	}

	first := g.Productions[0]
	if len(first.RHS) == 0 {
		return fmt.Errorf("start production has empty RHS")
	}
	last := first.RHS[len(first.RHS)-1]
	if last.Kind != Terminal {
		return fmt.Errorf("start production's RHS must end with the end-of-input terminal, found %s", last)
	}

	lhsSet := map[string]bool{}
	for _, p := range g.Productions {
		lhsSet[p.LHS] = true
	}
	for _, nt := range g.referencedNonTerminals() {
		if !lhsSet[nt] {
			return fmt.Errorf("nonterminal <%s> is referenced but has no production", nt)
		}
	}

	return nil
}
