package tableprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/lltable"
)

func Test_Grammar_RendersEachProduction(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.Parse("<S> -> a <A> $EOF$\n<A> -> b\n<A> -> #Eps#")
	assert.NoError(err)

	out := Grammar(g)
	assert.Contains(out, "Production")
	assert.Contains(out, "<S>")
	assert.Contains(out, "<A>")
}

func Test_Table_RendersFlagsAndPredict(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.Parse("<S> -> a <A> $EOF$\n<A> -> b\n<A> -> #Eps#")
	assert.NoError(err)
	a := grammar.Analyze(g)
	table, err := lltable.Compile(g, a)
	assert.NoError(err)

	out := Table(table)
	assert.Contains(out, "Name")
	assert.Contains(out, "Flags")
	assert.Contains(out, "Predict")

	lines := strings.Split(out, "\n")
	assert.Greater(len(lines), len(table.Entries), "header row plus one per entry")
}

func Test_EntryFlags(t *testing.T) {
	testCases := []struct {
		name string
		e    lltable.Entry
		want string
	}{
		{name: "no flags", e: lltable.Entry{}, want: "-"},
		{name: "shift only", e: lltable.Entry{DoShift: true}, want: "shift"},
		{name: "push and error", e: lltable.Entry{IsPush: true, IsError: true}, want: "push,error"},
		{name: "all flags", e: lltable.Entry{DoShift: true, IsPush: true, IsError: true, IsEnding: true, IsAction: true}, want: "shift,push,error,end,action"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, entryFlags(tc.e))
		})
	}
}
