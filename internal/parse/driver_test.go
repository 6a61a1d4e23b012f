package parse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/grammar"
	"github.com/dekarrin/minic/internal/lexer"
	"github.com/dekarrin/minic/internal/lltable"
	"github.com/dekarrin/minic/internal/token"
)

type recordingBuilder struct {
	dispatched []string
	failOn     string
}

func (r *recordingBuilder) Dispatch(action string, current token.Token) error {
	if action == r.failOn {
		return fmt.Errorf("forced failure on %s", action)
	}
	r.dispatched = append(r.dispatched, fmt.Sprintf("%s:%s", action, current.Lexeme))
	return nil
}

func compileTable(t *testing.T, text string) *lltable.Table {
	t.Helper()
	g, err := grammar.Parse(text)
	assert.NoError(t, err)
	a := grammar.Analyze(g)
	table, err := lltable.Compile(g, a)
	assert.NoError(t, err)
	return table
}

func Test_Driver_Run_SimpleSequenceWithAction(t *testing.T) {
	assert := assert.New(t)

	table := compileTable(t, "<S> -> Identifier {OnIdent} EOF")
	builder := &recordingBuilder{}
	d := New(table, lexer.New("foo"), builder)

	assert.NoError(d.Run())
	assert.Equal([]string{"OnIdent:foo"}, builder.dispatched)
}

func Test_Driver_Run_UnexpectedTokenIsSyntaxError(t *testing.T) {
	assert := assert.New(t)

	table := compileTable(t, "<S> -> Identifier EOF")
	builder := &recordingBuilder{}
	d := New(table, lexer.New("123"), builder)

	err := d.Run()
	assert.Error(err)
	assert.Contains(err.Error(), "expected Identifier")
}

func Test_Driver_Run_RecursiveNonterminal(t *testing.T) {
	assert := assert.New(t)

	table := compileTable(t, "<S> -> <List> EOF\n<List> -> Identifier {OnItem} <List>\n<List> -> #Eps#")
	builder := &recordingBuilder{}
	d := New(table, lexer.New("a b c"), builder)

	assert.NoError(d.Run())
	assert.Equal([]string{"OnItem:a", "OnItem:b", "OnItem:c"}, builder.dispatched)
}

func Test_Driver_Run_BuilderErrorPropagates(t *testing.T) {
	assert := assert.New(t)

	table := compileTable(t, "<S> -> Identifier {OnIdent} EOF")
	builder := &recordingBuilder{failOn: "OnIdent"}
	d := New(table, lexer.New("foo"), builder)

	err := d.Run()
	assert.Error(err)
	assert.Contains(err.Error(), "forced failure")
}
