package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		text      string
		expectErr bool
	}{
		{
			name: "single production with action",
			text: "<S> -> a {DoA} $EOF$",
		},
		{
			name:      "no arrow",
			text:      "<S> a $EOF$",
			expectErr: true,
		},
		{
			name:      "empty nonterminal name",
			text:      "<> -> a $EOF$",
			expectErr: true,
		},
		{
			name: "epsilon alone is fine",
			text: "<S> -> a $EOF$\n<T> -> #Eps#",
		},
		{
			name:      "epsilon mixed with other symbols",
			text:      "<S> -> a $EOF$\n<T> -> #Eps# b",
			expectErr: true,
		},
		{
			name:      "referenced nonterminal with no production",
			text:      "<S> -> <T> $EOF$",
			expectErr: true,
		},
		{
			name:      "start production does not end in a terminal",
			text:      "<S> -> <T>\n<T> -> a",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := Parse(tc.text)

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.NotEmpty(g.Productions)
		})
	}
}

func Test_Grammar_ActionTags(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse("<S> -> a {OnA} b {OnB} $EOF$")
	assert.NoError(err)
	assert.Equal([]string{"OnA", "OnB"}, g.ActionTags())
}

func Test_Grammar_Terminals(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse("<S> -> a b a $EOF$")
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "$EOF$"}, g.Terminals())
}

func Test_Grammar_FreeStandingAction(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse("<S> -> {Prepare} a $EOF$")
	assert.NoError(err)

	rhs := g.Productions[0].RHS
	assert.True(rhs[0].IsActionOnly())
	assert.Equal("Prepare", rhs[0].Action)
}
