package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/minic/internal/token"
	"github.com/dekarrin/minic/internal/types"
)

func identTok(name string) token.Token {
	return token.Token{Kind: token.Identifier, Lexeme: name}
}

func intTok(lexeme string) token.Token {
	return token.Token{Kind: token.IntegerConstant, Lexeme: lexeme}
}

// Test_Builder_Dispatch_FullFunction drives a Builder through the same
// dispatch sequence the parser driver would send for:
//
//	func main() -> Int: { return 1; }
func Test_Builder_Dispatch_FullFunction(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()

	assert.NoError(b.Dispatch("OnIdentifierParsed", identTok("main")))
	assert.NoError(b.Dispatch("OnIntegerTypeParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnFunctionReturnTypeParsed", token.Token{}))

	assert.NoError(b.Dispatch("OnIntegerConstantParsed", intTok("1")))
	assert.NoError(b.Dispatch("OnReturnExpression", token.Token{}))
	assert.NoError(b.Dispatch("OnReturnStatementParsed", token.Token{}))

	assert.NoError(b.Dispatch("PrepareCompositeStatementParsing", token.Token{}))
	assert.NoError(b.Dispatch("OnCompositeStatementPartParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnCompositeStatementParsed", token.Token{}))

	assert.NoError(b.Dispatch("OnFunctionParsed", token.Token{}))

	prog, err := b.Program()
	assert.NoError(err)
	assert.Len(prog.Functions, 1)

	fn := prog.Functions[0]
	assert.Equal("main", fn.Name)
	assert.Equal(types.Scalar(types.Int), fn.ReturnType)
	assert.Empty(fn.Params)

	block := fn.Body.AsBlock()
	assert.Len(block.Stmts, 1)
	ret := block.Stmts[0].AsReturn()
	assert.Equal(int64(1), ret.Expr.AsLiteral().IntVal)
}

func Test_Builder_Dispatch_BinaryAndParams(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()

	// func name
	assert.NoError(b.Dispatch("OnIdentifierParsed", identTok("add")))

	// param a: Int
	assert.NoError(b.Dispatch("OnIdentifierParsed", identTok("a")))
	assert.NoError(b.Dispatch("OnIntegerTypeParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnFunctionParamParsed", token.Token{}))

	// param b: Int
	assert.NoError(b.Dispatch("OnIdentifierParsed", identTok("b")))
	assert.NoError(b.Dispatch("OnIntegerTypeParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnFunctionParamParsed", token.Token{}))

	// return type
	assert.NoError(b.Dispatch("OnIntegerTypeParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnFunctionReturnTypeParsed", token.Token{}))

	// body: return a + b;
	assert.NoError(b.Dispatch("OnIdentifierParsed", identTok("a")))
	assert.NoError(b.Dispatch("OnIdentifierParsed", identTok("b")))
	assert.NoError(b.Dispatch("OnBinaryPlusParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnReturnExpression", token.Token{}))
	assert.NoError(b.Dispatch("OnReturnStatementParsed", token.Token{}))

	assert.NoError(b.Dispatch("PrepareCompositeStatementParsing", token.Token{}))
	assert.NoError(b.Dispatch("OnCompositeStatementPartParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnCompositeStatementParsed", token.Token{}))

	assert.NoError(b.Dispatch("OnFunctionParsed", token.Token{}))

	prog, err := b.Program()
	assert.NoError(err)
	fn := prog.Functions[0]
	assert.Equal("add", fn.Name)
	assert.Len(fn.Params, 2)
	assert.Equal("a", fn.Params[0].Name)
	assert.Equal("b", fn.Params[1].Name)

	ret := fn.Body.AsBlock().Stmts[0].AsReturn()
	bin := ret.Expr.AsBinary()
	assert.Equal(BinaryPlus, bin.Op)
	assert.Equal("a", bin.Left.AsIdentifier().Name)
	assert.Equal("b", bin.Right.AsIdentifier().Name)
}

func Test_Builder_Dispatch_UnknownAction(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	err := b.Dispatch("NotARealAction", token.Token{})
	assert.Error(err)
}

func Test_Builder_Dispatch_StackUnderflow(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	err := b.Dispatch("OnReturnExpression", token.Token{})
	assert.Error(err)
}

func Test_Builder_Program_ErrorsOnDirtyState(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	assert.NoError(b.Dispatch("OnIntegerConstantParsed", intTok("1")))

	_, err := b.Program()
	assert.Error(err, "a leftover expression on the stack must fail Program()")
}

func Test_Builder_Dispatch_IfElse(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()

	// if (True) { } else { }
	assert.NoError(b.Dispatch("OnTrueConstantParsed", token.Token{}))
	assert.NoError(b.Dispatch("PrepareCompositeStatementParsing", token.Token{}))
	assert.NoError(b.Dispatch("OnCompositeStatementParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnIfStatementParsed", token.Token{}))

	assert.NoError(b.Dispatch("PrepareCompositeStatementParsing", token.Token{}))
	assert.NoError(b.Dispatch("OnCompositeStatementParsed", token.Token{}))
	assert.NoError(b.Dispatch("OnOptionalElseClauseParsed", token.Token{}))

	assert.Equal(1, b.stmtStack.Len())
	ifStmt := b.stmtStack.Pop().(*IfStmt)
	assert.NotNil(ifStmt.Else)
	assert.True(ifStmt.Cond.AsLiteral().BoolVal)
}
