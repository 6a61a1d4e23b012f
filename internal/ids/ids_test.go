package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Sequence_Next_NeverCollides(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequence()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := seq.Next("continue")
		assert.False(seen[name], "generated a duplicate name: %s", name)
		seen[name] = true
		assert.True(strings.HasPrefix(name, "continue."))
	}
}

func Test_Sequence_Next_DifferentHints(t *testing.T) {
	assert := assert.New(t)

	seq := NewSequence()
	a := seq.Next("then")
	b := seq.Next("else")

	assert.True(strings.HasPrefix(a, "then."))
	assert.True(strings.HasPrefix(b, "else."))
	assert.NotEqual(a, b)
}
