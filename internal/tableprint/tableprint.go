// Package tableprint renders a grammar or compiled parsing table as an
// aligned text table for the -dump-grammar/-dump-table CLI flags, grounded
// on the teacher's use of rosed.Edit(...).InsertTableOpts for its own LR
// table dumps (internal/tunascript/parser.go).
package tableprint

import (
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/lltable"
)

// Grammar renders g's productions as a numbered, aligned table: index,
// LHS, and the RHS rendered with its action tags.
func Grammar(g grammar.Grammar) string {
	data := [][]string{{"#", "Production"}}
	for i, p := range g.Productions {
		data = append(data, []string{strconv.Itoa(i), p.String()})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// Table renders t as a flat array of entries, one row per index, mirroring
// the fields the driver (internal/parse) interprets so a dump is directly
// useful for debugging a bad grammar.
func Table(t *lltable.Table) string {
	data := [][]string{{"#", "Name", "Flags", "Next", "Predict"}}
	for i, e := range t.Entries {
		data = append(data, []string{
			strconv.Itoa(i),
			e.Name,
			entryFlags(e),
			strconv.Itoa(e.Next),
			e.Predict.StringOrdered(),
		})
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func entryFlags(e lltable.Entry) string {
	var flags []string
	if e.DoShift {
		flags = append(flags, "shift")
	}
	if e.IsPush {
		flags = append(flags, "push")
	}
	if e.IsError {
		flags = append(flags, "error")
	}
	if e.IsEnding {
		flags = append(flags, "end")
	}
	if e.IsAction {
		flags = append(flags, "action")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
