package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Stack_PushPopOrder(t *testing.T) {
	assert := assert.New(t)

	var s Stack[int]
	assert.True(s.Empty())

	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(3, s.Len())

	assert.Equal(3, s.Pop())
	assert.Equal(2, s.Pop())
	assert.Equal(1, s.Pop())
	assert.True(s.Empty())
}

func Test_Stack_Peek_DoesNotRemove(t *testing.T) {
	assert := assert.New(t)

	var s Stack[string]
	s.Push("a")
	s.Push("b")

	assert.Equal("b", s.Peek())
	assert.Equal(2, s.Len())
}

func Test_Stack_Pop_PanicsWhenEmpty(t *testing.T) {
	var s Stack[int]
	assert.Panics(t, func() { s.Pop() })
}

func Test_Stack_Peek_PanicsWhenEmpty(t *testing.T) {
	var s Stack[int]
	assert.Panics(t, func() { s.Peek() })
}

func Test_Stack_Of_PreloadedLiteral(t *testing.T) {
	assert := assert.New(t)

	s := Stack[int]{Of: []int{1, 2, 3}}
	assert.Equal(3, s.Pop())
	assert.Equal(2, s.Len())
}
