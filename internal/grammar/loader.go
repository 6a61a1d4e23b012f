package grammar

import (
	"fmt"
	"strings"
)

// Parse loads a Grammar from its declarative textual form: one production
// per non-blank line, each written as
//
//	<Lhs> -> Sym1 Sym2 ... {Action}? ...
//
// where <X> denotes a nonterminal, #Eps# denotes epsilon (must be the sole
// RHS symbol), {Tag} binds the named action to the symbol immediately
// preceding it (or stands alone as a free action if nothing precedes it on
// the line so far), and every other token is a terminal name. Whitespace is
// insignificant; blank lines and lines whose first non-whitespace character
// is '#' followed by a non-'Eps#' token are NOT treated as comments here —
// the grammar text is expected to contain only productions and blank lines.
func Parse(text string) (Grammar, error) {
	var g Grammar

	lines := strings.Split(text, "\n")
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		p, err := parseLine(line)
		if err != nil {
			return Grammar{}, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		g.Productions = append(g.Productions, p)
	}

	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}

	return g, nil
}

func parseLine(line string) (Production, error) {
	arrowIdx := strings.Index(line, "->")
	if arrowIdx < 0 {
		return Production{}, fmt.Errorf("no arrow ('->') found: %q", line)
	}

	lhsPart := strings.TrimSpace(line[:arrowIdx])
	rhsPart := strings.TrimSpace(line[arrowIdx+2:])

	lhs, err := parseNonterminalRef(lhsPart)
	if err != nil {
		return Production{}, fmt.Errorf("malformed left-hand side %q: %w", lhsPart, err)
	}

	if rhsPart == "" {
		return Production{}, fmt.Errorf("empty right-hand side for <%s>", lhs)
	}

	fields := strings.Fields(rhsPart)
	rhs, err := parseRHS(fields)
	if err != nil {
		return Production{}, fmt.Errorf("right-hand side of <%s>: %w", lhs, err)
	}

	return Production{LHS: lhs, RHS: rhs}, nil
}

func parseNonterminalRef(tok string) (string, error) {
	if !strings.HasPrefix(tok, "<") || !strings.HasSuffix(tok, ">") || len(tok) < 3 {
		return "", fmt.Errorf("expected <Name>")
	}
	name := tok[1 : len(tok)-1]
	if name == "" {
		return "", fmt.Errorf("empty nonterminal name")
	}
	return name, nil
}

func parseRHS(fields []string) ([]Symbol, error) {
	var rhs []Symbol
	hasEpsilon := false
	hasOther := false

	for _, f := range fields {
		switch {
		case f == "#Eps#":
			hasEpsilon = true
			rhs = append(rhs, Symbol{Kind: EpsilonKind})
		case strings.HasPrefix(f, "{") && strings.HasSuffix(f, "}"):
			tag := f[1 : len(f)-1]
			if tag == "" {
				return nil, fmt.Errorf("empty action tag")
			}
			if len(rhs) > 0 && rhs[len(rhs)-1].Action == "" {
				// bind to the immediately preceding symbol
				rhs[len(rhs)-1].Action = tag
			} else {
				// free-standing action: represented as its own pseudo-symbol
				// of kind actionOnlyKind carrying only the action tag, which
				// the table compiler emits as a pure action entry and which
				// is never matched against FIRST/FOLLOW.
				rhs = append(rhs, Symbol{Kind: actionOnlyKind, Action: tag})
			}
			hasOther = true
		case strings.HasPrefix(f, "<"):
			nt, err := parseNonterminalRef(f)
			if err != nil {
				return nil, fmt.Errorf("malformed nonterminal %q: %w", f, err)
			}
			rhs = append(rhs, Symbol{Text: nt, Kind: Nonterminal})
			hasOther = true
		default:
			rhs = append(rhs, Symbol{Text: f, Kind: Terminal})
			hasOther = true
		}
	}

	if len(rhs) == 0 {
		return nil, fmt.Errorf("empty right-hand side")
	}
	if hasEpsilon && hasOther {
		return nil, fmt.Errorf("epsilon (#Eps#) cannot be mixed with other symbols in the same production")
	}

	return rhs, nil
}

// actionOnlyKind marks a free-standing action symbol: one that carries no
// terminal/nonterminal meaning of its own and exists only so the table
// compiler can emit an action entry between two ordinary symbols.
const actionOnlyKind SymbolKind = -1

// IsActionOnly reports whether s is a free-standing action marker rather
// than a real terminal, nonterminal, or epsilon.
func (s Symbol) IsActionOnly() bool { return s.Kind == actionOnlyKind }
