// Package parse implements the table-driven parser driver: it walks the flat
// array lltable.Table built from the grammar, consuming tokens from a lexer
// and dispatching semantic-action tags to an ast.Builder as it goes.
package parse

import (
	"sort"

	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/lltable"
	"github.com/dekarrin/minic/internal/token"
	"github.com/dekarrin/minic/internal/util"
)

// ActionDispatcher is the narrow interface the driver needs from an AST
// builder: invoke the named action, passing the token that was current when
// the action fired.
type ActionDispatcher interface {
	Dispatch(action string, current token.Token) error
}

// Driver runs the table-driven parse algorithm (spec.md §4.D) over a single
// token stream, dispatching action tags to builder as it consumes tokens
// from lx.
type Driver struct {
	table   *lltable.Table
	lx      *lexer.Lexer
	builder ActionDispatcher
}

// New creates a Driver for the given compiled table, lexer, and builder.
func New(table *lltable.Table, lx *lexer.Lexer, builder ActionDispatcher) *Driver {
	return &Driver{table: table, lx: lx, builder: builder}
}

// Run executes the driver loop to completion. On success the builder has
// received every action dispatch needed to build the AST; on failure it
// returns the first *ferr.Error encountered (syntax, internal-grammar, or a
// semantic error surfaced early by an action handler).
func (d *Driver) Run() error {
	t, err := d.lx.Next()
	if err != nil {
		return asFerr(err)
	}

	i := 0
	var retAddrs util.Stack[int]
	var lastShifted token.Token

	for {
		if i < 0 || i >= len(d.table.Entries) {
			return ferr.New(ferr.InternalGrammar, "parser table index %d out of range", i)
		}
		e := d.table.Entries[i]

		if e.IsAction {
			// An action entry whose DoShift is set was bound to the symbol
			// immediately preceding it in the production's RHS, which has
			// already been shifted past by the time control reaches this
			// entry; it needs that consumed token (e.g. an Identifier's
			// lexeme), not the new lookahead sitting in t.
			actionTok := t
			if e.DoShift {
				actionTok = lastShifted
			}
			if err := d.builder.Dispatch(e.Name, actionTok); err != nil {
				return err
			}
			if e.Next >= 0 {
				i = e.Next
			} else {
				i = retAddrs.Pop()
			}
			continue
		}

		if !e.Predict.Has(string(t.Kind)) {
			if e.IsError {
				return ferr.NewAtToken(ferr.Syntax, t, "unexpected token %s; expected %s", t.Kind.Human(), expectedList(e.Predict))
			}
			i++
			continue
		}

		if e.IsEnding {
			if retAddrs.Len() != 0 {
				return ferr.New(ferr.InternalGrammar, "return-address stack not empty at end of parse")
			}
			return nil
		}

		if e.IsPush {
			retAddrs.Push(i + 1)
		}

		if e.DoShift {
			lastShifted = t
			next, err := d.lx.Next()
			if err != nil {
				return asFerr(err)
			}
			t = next
		}

		if e.Next >= 0 {
			i = e.Next
		} else {
			if retAddrs.Len() == 0 {
				return ferr.New(ferr.InternalGrammar, "return-address stack empty when a pop was required")
			}
			i = retAddrs.Pop()
		}
	}
}

// expectedList renders a predict set as a reader-facing "a, b, and c" list,
// used to flesh out a syntax error's message with what would have been
// accepted instead of the offending token.
func expectedList(predict util.StringSet) string {
	names := make([]string, 0, predict.Len())
	for _, k := range predict.Elements() {
		names = append(names, token.Kind(k).Human())
	}
	sort.Strings(names)
	return util.MakeTextList(names)
}

func asFerr(err error) error {
	if _, ok := err.(*ferr.Error); ok {
		return err
	}
	return ferr.New(ferr.Lexical, "%s", err.Error())
}
