package ast

import (
	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/token"
	"github.com/dekarrin/minic/internal/types"
	"github.com/dekarrin/minic/internal/util"
)

// Builder assembles a Program from the action dispatches a parse.Driver
// sends it while it drives the grammar's parsing table (spec.md §4.G/H). It
// holds the explicit expression/statement/type stacks, the call-argument
// and composite-statement-children list stacks, the current function's
// param accumulator, the finished-function-list accumulator, and the three
// single-slot optional latches the grammar's action tags describe.
//
// Builder implements parse.ActionDispatcher.
type Builder struct {
	exprStack util.Stack[Expr]
	stmtStack util.Stack[Stmt]
	typeStack util.Stack[types.Type]

	callArgs  util.Stack[[]Expr]
	composite util.Stack[[]Stmt]

	params    []Param
	functions []*Function

	returnExpr  Expr
	hasReturn   bool
	initExpr    Expr
	hasInit     bool
	retType     types.Type
	hasRetType  bool
}

// NewBuilder returns a Builder ready to receive action dispatches for a
// fresh parse.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program returns the accumulated Program. Call only after a successful
// parse; per spec.md §4.G/H's end-of-parse invariant every stack must be
// empty and every latch cleared, which Program checks before returning.
func (b *Builder) Program() (*Program, error) {
	if b.exprStack.Len() != 0 || b.stmtStack.Len() != 0 || b.typeStack.Len() != 0 ||
		b.callArgs.Len() != 0 || b.composite.Len() != 0 || len(b.params) != 0 ||
		b.hasReturn || b.hasInit || b.hasRetType {
		return nil, ferr.New(ferr.InternalGrammar, "builder state not clean at end of parse: a grammar action failed to balance its stack")
	}
	return &Program{Functions: b.functions}, nil
}

// Dispatch resolves action to its enumerant and invokes the matching
// handler with the token that was current when the action fired (spec.md
// §4.D/§4.G/H).
func (b *Builder) Dispatch(action string, current token.Token) error {
	tag, ok := LookupActionTag(action)
	if !ok {
		return ferr.New(ferr.InternalGrammar, "action tag %q has no bound handler", action)
	}

	switch tag {
	case OnIntegerTypeParsed:
		b.typeStack.Push(types.Scalar(types.Int))
	case OnFloatTypeParsed:
		b.typeStack.Push(types.Scalar(types.Float))
	case OnBoolTypeParsed:
		b.typeStack.Push(types.Scalar(types.Bool))
	case OnStringTypeParsed:
		b.typeStack.Push(types.Scalar(types.String))
	case OnArrayIntTypeParsed:
		b.typeStack.Push(types.ArrayOf(types.Int))
	case OnArrayFloatTypeParsed:
		b.typeStack.Push(types.ArrayOf(types.Float))
	case OnArrayBoolTypeParsed:
		b.typeStack.Push(types.ArrayOf(types.Bool))
	case OnArrayStringTypeParsed:
		b.typeStack.Push(types.ArrayOf(types.String))

	case OnIntegerConstantParsed:
		v, err := parseInt(current.Lexeme)
		if err != nil {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "malformed integer constant %q: %s", current.Lexeme, err)
		}
		b.exprStack.Push(NewLiteralInt(current.Pos, v))
	case OnFloatConstantParsed:
		v, err := parseFloat(current.Lexeme)
		if err != nil {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "malformed float constant %q: %s", current.Lexeme, err)
		}
		b.exprStack.Push(NewLiteralFloat(current.Pos, v))
	case OnStringConstantParsed:
		b.exprStack.Push(NewLiteralString(current.Pos, current.Lexeme))
	case OnTrueConstantParsed:
		b.exprStack.Push(NewLiteralBool(current.Pos, true))
	case OnFalseConstantParsed:
		b.exprStack.Push(NewLiteralBool(current.Pos, false))
	case OnIdentifierParsed:
		b.exprStack.Push(NewIdentifier(current.Pos, current.Lexeme))

	case OnUnaryPlusParsed:
		return b.reduceUnary(current, UnaryPlus)
	case OnUnaryMinusParsed:
		return b.reduceUnary(current, UnaryMinus)
	case OnUnaryNegationParsed:
		return b.reduceUnary(current, UnaryNegation)

	case OnBinaryPlusParsed:
		return b.reduceBinary(current, BinaryPlus)
	case OnBinaryMinusParsed:
		return b.reduceBinary(current, BinaryMinus)
	case OnBinaryMulParsed:
		return b.reduceBinary(current, BinaryMul)
	case OnBinaryDivParsed:
		return b.reduceBinary(current, BinaryDiv)
	case OnBinaryModParsed:
		return b.reduceBinary(current, BinaryMod)
	case OnBinaryOrParsed:
		return b.reduceBinary(current, BinaryOr)
	case OnBinaryAndParsed:
		return b.reduceBinary(current, BinaryAnd)
	case OnBinaryEqualsParsed:
		return b.reduceBinary(current, BinaryEquals)
	case OnBinaryNotEqualsParsed:
		return b.reduceBinary(current, BinaryNotEquals)
	case OnBinaryLessParsed:
		return b.reduceBinary(current, BinaryLess)
	case OnBinaryMoreParsed:
		return b.reduceBinary(current, BinaryMore)
	case OnBinaryLessOrEqualsParsed:
		return b.reduceBinary(current, BinaryLessEq)
	case OnBinaryMoreOrEqualsParsed:
		return b.reduceBinary(current, BinaryMoreEq)

	case PrepareFnCallParamsParsing:
		b.callArgs.Push(nil)
	case OnFunctionCallParamListMemberParsed:
		arg, err := b.popExpr(current)
		if err != nil {
			return err
		}
		if b.callArgs.Len() == 0 {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "call-argument list member parsed with no list in progress")
		}
		top := b.callArgs.Pop()
		top = append(top, arg)
		b.callArgs.Push(top)
	case OnFunctionCallExprParsed:
		call, err := b.popCall(current)
		if err != nil {
			return err
		}
		b.exprStack.Push(call)
	case OnFunctionCallStatementParsed:
		call, err := b.popCall(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewExprCall(current.Pos, call))

	case ArrayElementAccess:
		index, err := b.popExpr(current)
		if err != nil {
			return err
		}
		name, err := b.popIdentName(current)
		if err != nil {
			return err
		}
		b.exprStack.Push(NewArrayIndex(current.Pos, name, index))
	case OnArrayElementAssignStatement:
		rhs, err := b.popExpr(current)
		if err != nil {
			return err
		}
		index, err := b.popExpr(current)
		if err != nil {
			return err
		}
		name, err := b.popIdentName(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewArrayAssign(current.Pos, name, index, rhs))

	case OnVariableDeclarationParsed:
		t, err := b.popType(current)
		if err != nil {
			return err
		}
		name, err := b.popIdentName(current)
		if err != nil {
			return err
		}
		var init Expr
		if b.hasInit {
			init = b.initExpr
			b.initExpr = nil
			b.hasInit = false
		}
		b.stmtStack.Push(NewVarDecl(current.Pos, name, t, init))
	case OnOptionalAssignParsed:
		e, err := b.popExpr(current)
		if err != nil {
			return err
		}
		b.initExpr = e
		b.hasInit = true

	case OnAssignStatementParsed:
		e, err := b.popExpr(current)
		if err != nil {
			return err
		}
		name, err := b.popIdentName(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewAssign(current.Pos, name, e))

	case OnReturnExpression:
		e, err := b.popExpr(current)
		if err != nil {
			return err
		}
		b.returnExpr = e
		b.hasReturn = true
	case OnReturnStatementParsed:
		var e Expr
		if b.hasReturn {
			e = b.returnExpr
			b.returnExpr = nil
			b.hasReturn = false
		}
		b.stmtStack.Push(NewReturn(current.Pos, e))

	case OnIfStatementParsed:
		then, err := b.popStmt(current)
		if err != nil {
			return err
		}
		cond, err := b.popExpr(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewIf(current.Pos, cond, then))
	case OnOptionalElseClauseParsed:
		elseStmt, err := b.popStmt(current)
		if err != nil {
			return err
		}
		if b.stmtStack.Len() == 0 {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "else clause parsed with no enclosing if statement")
		}
		top := b.stmtStack.Pop()
		ifStmt, ok := top.(*IfStmt)
		if !ok {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "else clause attached to a non-if statement")
		}
		ifStmt.Else = elseStmt
		b.stmtStack.Push(ifStmt)

	case OnWhileLoopParsed:
		body, err := b.popStmt(current)
		if err != nil {
			return err
		}
		cond, err := b.popExpr(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewWhile(current.Pos, cond, body))

	case PrepareCompositeStatementParsing:
		b.composite.Push(nil)
	case OnCompositeStatementPartParsed:
		s, err := b.popStmt(current)
		if err != nil {
			return err
		}
		if b.composite.Len() == 0 {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "composite statement part parsed with no block in progress")
		}
		top := b.composite.Pop()
		top = append(top, s)
		b.composite.Push(top)
	case OnCompositeStatementParsed:
		if b.composite.Len() == 0 {
			return ferr.NewAtToken(ferr.InternalGrammar, current, "composite statement parsed with no block in progress")
		}
		children := b.composite.Pop()
		b.stmtStack.Push(NewBlock(current.Pos, children))

	case OnPrintStatementParsed:
		args, err := b.popArgList(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewPrint(current.Pos, args))
	case OnScanStatementParsed:
		args, err := b.popArgList(current)
		if err != nil {
			return err
		}
		b.stmtStack.Push(NewScan(current.Pos, args))

	case OnFunctionReturnTypeParsed:
		t, err := b.popType(current)
		if err != nil {
			return err
		}
		b.retType = t
		b.hasRetType = true
	case OnFunctionParamParsed:
		t, err := b.popType(current)
		if err != nil {
			return err
		}
		name, err := b.popIdentName(current)
		if err != nil {
			return err
		}
		b.params = append(b.params, Param{Name: name, Type: t})
	case OnFunctionParsed:
		body, err := b.popStmt(current)
		if err != nil {
			return err
		}
		name, err := b.popIdentName(current)
		if err != nil {
			return err
		}
		retType := types.Scalar(types.Int)
		if b.hasRetType {
			retType = b.retType
			b.hasRetType = false
		}
		fn := &Function{
			Pos:        current.Pos,
			ReturnType: retType,
			Name:       name,
			Params:     b.params,
			Body:       body,
		}
		b.params = nil
		b.functions = append(b.functions, fn)

	default:
		return ferr.NewAtToken(ferr.InternalGrammar, current, "action tag %q recognized but not handled by the builder", action)
	}

	return nil
}

func (b *Builder) reduceUnary(current token.Token, op UnaryOp) error {
	inner, err := b.popExpr(current)
	if err != nil {
		return err
	}
	b.exprStack.Push(NewUnary(current.Pos, op, inner))
	return nil
}

func (b *Builder) reduceBinary(current token.Token, op BinaryOp) error {
	right, err := b.popExpr(current)
	if err != nil {
		return err
	}
	left, err := b.popExpr(current)
	if err != nil {
		return err
	}
	b.exprStack.Push(NewBinary(current.Pos, op, left, right))
	return nil
}

func (b *Builder) popExpr(current token.Token) (Expr, error) {
	if b.exprStack.Len() == 0 {
		return nil, ferr.NewAtToken(ferr.InternalGrammar, current, "expression stack underflow")
	}
	return b.exprStack.Pop(), nil
}

func (b *Builder) popStmt(current token.Token) (Stmt, error) {
	if b.stmtStack.Len() == 0 {
		return nil, ferr.NewAtToken(ferr.InternalGrammar, current, "statement stack underflow")
	}
	return b.stmtStack.Pop(), nil
}

func (b *Builder) popType(current token.Token) (types.Type, error) {
	if b.typeStack.Len() == 0 {
		return types.Type{}, ferr.NewAtToken(ferr.InternalGrammar, current, "type stack underflow")
	}
	return b.typeStack.Pop(), nil
}

func (b *Builder) popIdentName(current token.Token) (string, error) {
	e, err := b.popExpr(current)
	if err != nil {
		return "", err
	}
	if e.Kind() != ExprIdentifier {
		return "", ferr.NewAtToken(ferr.InternalGrammar, current, "expected an identifier on the expression stack, found %s", e.Kind())
	}
	return e.AsIdentifier().Name, nil
}

func (b *Builder) popArgList(current token.Token) ([]Expr, error) {
	if b.callArgs.Len() == 0 {
		return nil, ferr.NewAtToken(ferr.InternalGrammar, current, "call-argument list stack underflow")
	}
	return b.callArgs.Pop(), nil
}

func (b *Builder) popCall(current token.Token) (*CallExpr, error) {
	args, err := b.popArgList(current)
	if err != nil {
		return nil, err
	}
	name, err := b.popIdentName(current)
	if err != nil {
		return nil, err
	}
	return NewCall(current.Pos, name, args), nil
}
