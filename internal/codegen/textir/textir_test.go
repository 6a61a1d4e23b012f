package textir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/codegen"
)

func Test_Backend_SimpleFunction_EmitsDefineAndRet(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")

	fn := b.DefineFunction("main", codegen.TypeI32, nil)
	blk := b.BeginBlock(fn, "entry")
	b.SetInsertPoint(blk)
	b.Ret(b.ConstInt(0), true)

	out := b.EmitText()
	assert.Contains(out, "define i32 @main()")
	assert.Contains(out, "entry:")
	assert.Contains(out, "ret i32 0")

	ok, msg := b.VerifyFunction(fn)
	assert.True(ok, msg)
}

func Test_Backend_DeclareExternal_EmitsDeclare(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")
	b.DeclareExternal("printf", codegen.TypeI32, []codegen.BackendType{codegen.TypePtr}, true)

	out := b.EmitText()
	assert.Contains(out, "declare i32 @printf(ptr, ...)")
}

func Test_Backend_ConstString_Interns(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")

	a := b.ConstString("hi")
	c := b.ConstString("hi")
	assert.Equal(a.ID, c.ID, "identical string constants share one global")

	d := b.ConstString("bye")
	assert.NotEqual(a.ID, d.ID)
}

func Test_Backend_BinOp_ArithmeticAndComparison(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")
	fn := b.DefineFunction("f", codegen.TypeI32, nil)
	blk := b.BeginBlock(fn, "entry")
	b.SetInsertPoint(blk)

	sum := b.BinOp(codegen.OpAdd, codegen.TypeI32, b.ConstInt(1), b.ConstInt(2))
	assert.Equal(codegen.TypeI32, sum.Type)

	cmp := b.BinOp(codegen.OpLt, codegen.TypeI32, b.ConstInt(1), b.ConstInt(2))
	assert.Equal(codegen.TypeI1, cmp.Type)

	b.Ret(sum, true)
	out := b.EmitText()
	assert.Contains(out, "= add i32 1, 2")
	assert.Contains(out, "= icmp lt i32 1, 2")
}

func Test_Backend_BinOp_FloatUsesFloatMnemonics(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")
	fn := b.DefineFunction("f", codegen.TypeF64, nil)
	blk := b.BeginBlock(fn, "entry")
	b.SetInsertPoint(blk)

	sum := b.BinOp(codegen.OpAdd, codegen.TypeF64, b.ConstFloat(1.5), b.ConstFloat(2.5))
	b.Ret(sum, true)

	out := b.EmitText()
	assert.Contains(out, "= fadd double")
}

func Test_Backend_CondBr_TerminatesBlock(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")
	fn := b.DefineFunction("f", codegen.TypeVoid, nil)
	entry := b.BeginBlock(fn, "entry")
	thenBlk := b.BeginBlock(fn, "then")
	elseBlk := b.BeginBlock(fn, "else")

	b.SetInsertPoint(entry)
	assert.False(b.BlockTerminated(entry))
	b.CondBr(b.ConstBool(true), thenBlk, elseBlk)
	assert.True(b.BlockTerminated(entry))

	b.SetInsertPoint(thenBlk)
	b.Ret(codegen.Value{}, false)
	b.SetInsertPoint(elseBlk)
	b.Ret(codegen.Value{}, false)

	ok, _ := b.VerifyFunction(fn)
	assert.True(ok)
}

func Test_Backend_VerifyFunction_FailsOnUnterminatedBlock(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")
	fn := b.DefineFunction("f", codegen.TypeVoid, nil)
	blk := b.BeginBlock(fn, "entry")
	b.SetInsertPoint(blk)

	ok, msg := b.VerifyFunction(fn)
	assert.False(ok)
	assert.Contains(msg, "no terminator")
}

func Test_Backend_Call_VoidReturnEmitsNoAssignment(t *testing.T) {
	assert := assert.New(t)

	b := New()
	b.NewModule("m")
	callee := b.DeclareExternal("doit", codegen.TypeVoid, nil, false)

	fn := b.DefineFunction("caller", codegen.TypeVoid, nil)
	blk := b.BeginBlock(fn, "entry")
	b.SetInsertPoint(blk)
	b.Call(callee, nil)
	b.Ret(codegen.Value{}, false)

	out := b.EmitText()
	lines := strings.Split(out, "\n")
	found := false
	for _, l := range lines {
		if strings.Contains(l, "call void @doit()") && !strings.Contains(l, "=") {
			found = true
		}
	}
	assert.True(found, "void call must not be assigned to a register")
}
