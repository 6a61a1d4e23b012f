package lltable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/grammar"
)

// Test_Compile_ForwardReference exercises a start production that refers to
// a nonterminal defined later in the grammar text, the same shape as the
// compiler's own <Program> -> <FuncList> EOF. A naive single-pass compiler
// would fail to resolve <A>'s header index before it exists.
func Test_Compile_ForwardReference(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.Parse("<S> -> <A> b $EOF$\n<A> -> a\n<A> -> #Eps#")
	assert.NoError(err)

	a := grammar.Analyze(g)
	table, err := Compile(g, a)
	assert.NoError(err)

	sHeader := table.HeaderIndex["S"]
	aHeader := table.HeaderIndex["A"]

	// S's body begins with a reference to <A>; its Next must point at A's
	// header regardless of A being compiled after S.
	sBody := table.Entries[sHeader].Next
	assert.Equal("A", table.Entries[sBody].Name)
	assert.Equal(aHeader, table.Entries[sBody].Next)
}

func Test_Compile_SimpleGrammarStructure(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.Parse("<S> -> a <A> b $EOF$\n<A> -> c\n<A> -> #Eps#")
	assert.NoError(err)

	a := grammar.Analyze(g)
	table, err := Compile(g, a)
	assert.NoError(err)

	assert.Contains(table.HeaderIndex, "S")
	assert.Contains(table.HeaderIndex, "A")

	sHeader := table.Entries[table.HeaderIndex["S"]]
	assert.True(sHeader.IsError, "S has only one alternative, so it is the last alternative")
	assert.True(sHeader.Predict.Has("a"))

	aAlts := []Entry{}
	for _, e := range table.Entries {
		// header entries for <A>'s own alternatives: unlike a reference to
		// <A> from inside another production's body, these never set IsPush.
		if e.Name == "A" && !e.IsAction && !e.DoShift && !e.IsPush {
			aAlts = append(aAlts, e)
		}
	}
	// one header entry per alternative of <A> (the "c" alt and the epsilon alt)
	assert.Len(aAlts, 2)
}

func Test_Compile_SelfRecursiveNonterminal(t *testing.T) {
	assert := assert.New(t)

	// <A> -> a <A>
	// <A> -> #Eps#
	g, err := grammar.Parse("<S> -> <A> $EOF$\n<A> -> a <A>\n<A> -> #Eps#")
	assert.NoError(err)

	a := grammar.Analyze(g)
	table, err := Compile(g, a)
	assert.NoError(err)

	aHeader := table.HeaderIndex["A"]
	// find the body entry for the recursive reference to <A> within its own
	// first alternative and confirm it resolves to its own header.
	found := false
	for idx, e := range table.Entries {
		if idx == aHeader {
			continue
		}
		if e.Name == "A" && !e.DoShift && e.Next == aHeader {
			found = true
		}
	}
	assert.True(found, "self-recursive reference to <A> must resolve to A's own header")
}
