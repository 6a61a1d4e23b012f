package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/types"
)

func Test_ScopeChain_DeclareAndResolve(t *testing.T) {
	assert := assert.New(t)

	c := newScopeChain()
	c.push()

	slot := Value{ID: "%x", Type: TypeI32}
	ok := c.declare("x", slot, types.Scalar(types.Int))
	assert.True(ok)

	b, found := c.resolve("x")
	assert.True(found)
	assert.Equal(slot, b.slot)
	assert.Equal(types.Scalar(types.Int), b.typ)
}

func Test_ScopeChain_RedeclarationInSameFrameFails(t *testing.T) {
	assert := assert.New(t)

	c := newScopeChain()
	c.push()

	assert.True(c.declare("x", Value{ID: "%x"}, types.Scalar(types.Int)))
	assert.False(c.declare("x", Value{ID: "%x2"}, types.Scalar(types.Float)))
}

func Test_ScopeChain_ShadowingAcrossFrames(t *testing.T) {
	assert := assert.New(t)

	c := newScopeChain()
	c.push()
	assert.True(c.declare("x", Value{ID: "%outer"}, types.Scalar(types.Int)))

	c.push()
	assert.True(c.declare("x", Value{ID: "%inner"}, types.Scalar(types.Float)))

	b, found := c.resolve("x")
	assert.True(found)
	assert.Equal("%inner", b.slot.ID)

	c.pop()
	b, found = c.resolve("x")
	assert.True(found)
	assert.Equal("%outer", b.slot.ID)
}

func Test_ScopeChain_ResolveMissingName(t *testing.T) {
	assert := assert.New(t)

	c := newScopeChain()
	c.push()

	_, found := c.resolve("nope")
	assert.False(found)
}

func Test_FuncRegistry_StoresSignatures(t *testing.T) {
	assert := assert.New(t)

	reg := newFuncRegistry()
	sig := funcSig{
		handle:     Func{ID: "add"},
		returnType: types.Scalar(types.Int),
		paramTypes: []types.Type{types.Scalar(types.Int), types.Scalar(types.Int)},
	}
	reg.sigs["add"] = sig

	got, ok := reg.sigs["add"]
	assert.True(ok)
	assert.Equal(sig, got)

	_, ok = reg.sigs["missing"]
	assert.False(ok)
}
