// Package lltable compiles a grammar.Grammar (plus its grammar.Analysis)
// into the flat, ordered array of parsing-table entries the table-driven
// parser (internal/parse) drives off of.
package lltable

import (
	"fmt"

	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/util"
)

// Entry is one row of the compiled parsing table.
type Entry struct {
	Name string

	DoShift  bool
	IsPush   bool
	IsError  bool
	IsEnding bool
	IsAction bool

	// Next is the index of the direct successor entry, or -1 if control
	// returns via the return-address stack instead.
	Next int

	Predict util.StringSet
}

// Table is the flat, ordered array of parsing-table entries, plus the index
// of each nonterminal's header entry (needed to patch a nonterminal body
// entry's Next to point at it).
type Table struct {
	Entries []Entry

	// HeaderIndex maps a nonterminal name to the index of its first
	// alternative's header entry.
	HeaderIndex map[string]int
}

const noNext = -1

// pendingRef records a nonterminal-body entry whose Next couldn't be
// resolved at emission time because that nonterminal has no header in
// HeaderIndex. Compile emits every alternative's header before any body, so
// forward references (<Program> names <FuncList>, defined only afterward)
// always resolve directly; a pendingRef is left only for a nonterminal that
// is referenced but has no production, and the final pass reports it.
type pendingRef struct {
	entryIdx int
	nt       string
}

type compiler struct {
	g       grammar.Grammar
	a       *grammar.Analysis
	t       *Table
	pending []pendingRef
}

// Compile builds the flat table array for g, using the FIRST/FOLLOW/predict
// sets in a. g is assumed already LL(1) (or at least not enforced to be; see
// grammar.Analysis.IsLL1 for the diagnostic check, which is not invoked
// here per spec.md §4.C).
func Compile(g grammar.Grammar, a *grammar.Analysis) (*Table, error) {
	c := &compiler{
		g: g,
		a: a,
		t: &Table{HeaderIndex: map[string]int{}},
	}

	nts := g.NonTerminals()
	var headers []int
	var bodies []grammar.Production
	for _, nt := range nts {
		prods := g.ProductionsFor(nt)
		for i, p := range prods {
			isLastAlt := i == len(prods)-1

			headerIdx := len(c.t.Entries)
			if i == 0 {
				c.t.HeaderIndex[nt] = headerIdx
			}

			c.t.Entries = append(c.t.Entries, Entry{
				Name:    nt,
				IsError: isLastAlt,
				Predict: a.Predict(p),
				Next:    noNext, // patched below once body entries exist
			})
			headers = append(headers, headerIdx)
			bodies = append(bodies, p)
		}
	}

	for k, p := range bodies {
		bodyStart := len(c.t.Entries)
		if err := c.emitBody(p); err != nil {
			return nil, err
		}

		c.t.Entries[headers[k]].Next = bodyStart
	}

	for _, pr := range c.pending {
		headerIdx, ok := c.t.HeaderIndex[pr.nt]
		if !ok {
			return nil, fmt.Errorf("nonterminal <%s> is referenced but was never compiled", pr.nt)
		}
		c.t.Entries[pr.entryIdx].Next = headerIdx
	}

	return c.t, nil
}

// emitBody appends the body (and any action) entries for production p's RHS,
// per the table rules spec.md §4.D lays out symbol-kind by symbol-kind.
func (c *compiler) emitBody(p grammar.Production) error {
	endTerm := c.g.EndTerminal()

	for i, s := range p.RHS {
		isLastInRHS := i == len(p.RHS)-1

		if s.IsActionOnly() {
			predict := c.a.Predict(p)
			entry := Entry{
				Name:     s.Action,
				IsAction: true,
				DoShift:  false,
				Predict:  predict,
				Next:     noNext,
			}
			idx := len(c.t.Entries)
			c.t.Entries = append(c.t.Entries, entry)
			if !isLastInRHS {
				c.t.Entries[idx].Next = idx + 1
			}
			continue
		}

		// An action bound to this symbol means control must fall through to
		// the action entry immediately after it regardless of whether this
		// is the grammatically last symbol of the production: "last in rhs"
		// for Next-chaining purposes means nothing at all follows in the
		// flattened entry sequence, which is false whenever an action is
		// bound here.
		hasAction := s.Action != ""
		trulyLast := isLastInRHS && !hasAction

		var entry Entry
		switch s.Kind {
		case grammar.Terminal:
			if s.Text == endTerm && isLastInRHS {
				entry = Entry{
					Name:     s.Text,
					DoShift:  true,
					IsError:  true,
					IsEnding: true,
					Predict:  util.NewStringSet(map[string]bool{s.Text: true}),
					Next:     noNext,
				}
			} else {
				entry = Entry{
					Name:    s.Text,
					DoShift: true,
					IsError: true,
					Predict: util.NewStringSet(map[string]bool{s.Text: true}),
					Next:    noNext,
				}
			}

		case grammar.Nonterminal:
			predict := util.NewStringSet()
			predict.AddAll(c.a.First(s.Text))
			if c.a.Nullable(s.Text) {
				predict.AddAll(c.a.Follow(s.Text))
			}
			headerIdx, ok := c.t.HeaderIndex[s.Text]
			next := noNext
			if ok {
				next = headerIdx
			}
			entry = Entry{
				Name:    s.Text,
				IsPush:  !trulyLast,
				IsError: true,
				Predict: predict,
				Next:    next,
			}

		case grammar.EpsilonKind:
			entry = Entry{
				Name:    "#Eps#",
				IsError: true,
				Predict: c.a.Predict(p),
				Next:    noNext,
			}
		}

		idx := len(c.t.Entries)
		c.t.Entries = append(c.t.Entries, entry)

		if s.Kind == grammar.Nonterminal {
			if _, ok := c.t.HeaderIndex[s.Text]; !ok {
				c.pending = append(c.pending, pendingRef{entryIdx: idx, nt: s.Text})
			}
		}

		// Terminal (non-ending) entries still need Next set to the
		// following index when something follows (either an action entry
		// or the next real body entry); Nonterminal entries already always
		// point at their header. Both kinds leave Next as noNext when
		// trulyLast, relying on the return-address stack instead.
		if s.Kind == grammar.Terminal && !(s.Text == endTerm && isLastInRHS) && !trulyLast {
			c.t.Entries[idx].Next = idx + 1
		}

		if hasAction {
			actionEntry := Entry{
				Name:     s.Action,
				IsAction: true,
				DoShift:  s.Kind == grammar.Terminal,
				Predict:  c.t.Entries[idx].Predict,
				Next:     noNext,
			}
			actionIdx := len(c.t.Entries)
			c.t.Entries = append(c.t.Entries, actionEntry)
			if !isLastInRHS {
				c.t.Entries[actionIdx].Next = actionIdx + 1
			}
		}
	}

	return nil
}
