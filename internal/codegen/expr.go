package codegen

import (
	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/token"
	"github.com/dekarrin/minic/internal/types"
)

// lowerExpr lowers e, returning its value and the source-level type it
// carries (needed by callers to decide whether a coercion is required).
func (g *Generator) lowerExpr(e ast.Expr) (Value, types.Type, error) {
	switch e.Kind() {
	case ast.ExprLiteral:
		return g.lowerLiteral(e.AsLiteral())
	case ast.ExprIdentifier:
		return g.lowerIdentifier(e.AsIdentifier())
	case ast.ExprUnary:
		return g.lowerUnary(e.AsUnary())
	case ast.ExprBinary:
		return g.lowerBinary(e.AsBinary())
	case ast.ExprCall:
		return g.lowerCall(e.AsCall())
	case ast.ExprArrayIndex:
		return g.lowerArrayIndex(e.AsArrayIndex())
	default:
		return Value{}, types.Type{}, ferr.New(ferr.InternalGrammar, "unhandled expression kind %s", e.Kind())
	}
}

func (g *Generator) lowerLiteral(e *ast.LiteralExpr) (Value, types.Type, error) {
	switch e.ValueKind {
	case ast.LitInt:
		return g.backend.ConstInt(e.IntVal), types.Scalar(types.Int), nil
	case ast.LitFloat:
		return g.backend.ConstFloat(e.FloatVal), types.Scalar(types.Float), nil
	case ast.LitBool:
		return g.backend.ConstBool(e.BoolVal), types.Scalar(types.Bool), nil
	default:
		return g.backend.ConstString(e.StringVal), types.Scalar(types.String), nil
	}
}

func (g *Generator) lowerIdentifier(e *ast.IdentifierExpr) (Value, types.Type, error) {
	b, ok := g.scopes.resolve(e.Name)
	if !ok {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "variable %q is not defined", e.Name)
	}
	return g.backend.Load(b.slot, toBackendType(b.typ)), b.typ, nil
}

func (g *Generator) lowerUnary(e *ast.UnaryExpr) (Value, types.Type, error) {
	val, t, err := g.lowerExpr(e.Inner)
	if err != nil {
		return Value{}, types.Type{}, err
	}
	if t.IsArray() {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "unary %s cannot apply to an array", e.Op)
	}

	switch e.Op {
	case ast.UnaryPlus:
		if t.Primitive != types.Int && t.Primitive != types.Float {
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "unary + requires Int or Float, found %s", t)
		}
		return val, t, nil
	case ast.UnaryMinus:
		switch t.Primitive {
		case types.Int:
			return g.backend.NegInt(val), t, nil
		case types.Float:
			return g.backend.NegFloat(val), t, nil
		default:
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "unary - requires Int or Float, found %s", t)
		}
	case ast.UnaryNegation:
		coerced, err := g.coerceToBool(val, t, e.Pos())
		if err != nil {
			return Value{}, types.Type{}, err
		}
		return g.backend.Not(coerced), types.Scalar(types.Bool), nil
	default:
		return Value{}, types.Type{}, ferr.New(ferr.InternalGrammar, "unhandled unary operator %s", e.Op)
	}
}

func (g *Generator) lowerBinary(e *ast.BinaryExpr) (Value, types.Type, error) {
	lv, lt, err := g.lowerExpr(e.Left)
	if err != nil {
		return Value{}, types.Type{}, err
	}
	rv, rt, err := g.lowerExpr(e.Right)
	if err != nil {
		return Value{}, types.Type{}, err
	}

	if e.Op.IsLogical() {
		lb, err := g.coerceToBool(lv, lt, e.Pos())
		if err != nil {
			return Value{}, types.Type{}, err
		}
		rb, err := g.coerceToBool(rv, rt, e.Pos())
		if err != nil {
			return Value{}, types.Type{}, err
		}
		op := OpAnd
		if e.Op == ast.BinaryOr {
			op = OpOr
		}
		return g.backend.BinOp(op, TypeI1, lb, rb), types.Scalar(types.Bool), nil
	}

	if lt.IsArray() || rt.IsArray() {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "operator %s does not apply to arrays", e.Op)
	}

	if lt.Primitive == types.String || rt.Primitive == types.String {
		if lt.Primitive != types.String || rt.Primitive != types.String {
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "cannot mix String and %s in operator %s", otherOf(lt, rt, types.String), e.Op)
		}
		return g.lowerStringBinary(e, lv, rv)
	}

	preferred, ok := types.PreferredBinary(lt, rt)
	if !ok {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "operator %s cannot be applied to %s and %s", e.Op, lt, rt)
	}

	lv, err = g.coerceScalar(lv, lt, preferred, e.Pos())
	if err != nil {
		return Value{}, types.Type{}, err
	}
	rv, err = g.coerceScalar(rv, rt, preferred, e.Pos())
	if err != nil {
		return Value{}, types.Type{}, err
	}

	op, err := binOpFor(e.Op, preferred)
	if err != nil {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "%s", err)
	}

	result := g.backend.BinOp(op, toBackendType(preferred), lv, rv)
	if e.Op.IsRelational() {
		return result, types.Scalar(types.Bool), nil
	}
	return result, preferred, nil
}

// lowerStringBinary implements the only binary operators String supports
// outside the coercion lattice: equality and inequality. Both compare the
// operands as pointers (a TypePtr BinOp), so two equal strings stored at
// different addresses compare unequal. Every other operator on String is a
// semantic error.
func (g *Generator) lowerStringBinary(e *ast.BinaryExpr, lv, rv Value) (Value, types.Type, error) {
	switch e.Op {
	case ast.BinaryEquals:
		return g.backend.BinOp(OpEq, TypePtr, lv, rv), types.Scalar(types.Bool), nil
	case ast.BinaryNotEquals:
		return g.backend.BinOp(OpNe, TypePtr, lv, rv), types.Scalar(types.Bool), nil
	default:
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "operator %s does not apply to String", e.Op)
	}
}

func otherOf(lt, rt types.Type, except types.Primitive) types.Type {
	if lt.Primitive == except {
		return rt
	}
	return lt
}

func binOpFor(op ast.BinaryOp, operand types.Type) (BinOpKind, error) {
	switch op {
	case ast.BinaryPlus:
		return OpAdd, nil
	case ast.BinaryMinus:
		return OpSub, nil
	case ast.BinaryMul:
		return OpMul, nil
	case ast.BinaryDiv:
		return OpDiv, nil
	case ast.BinaryMod:
		return OpMod, nil
	case ast.BinaryEquals:
		return OpEq, nil
	case ast.BinaryNotEquals:
		return OpNe, nil
	case ast.BinaryLess:
		return OpLt, nil
	case ast.BinaryMore:
		return OpGt, nil
	case ast.BinaryLessEq:
		return OpLe, nil
	case ast.BinaryMoreEq:
		return OpGe, nil
	default:
		return 0, ferr.New(ferr.InternalGrammar, "unhandled binary operator %s", op)
	}
}

func (g *Generator) lowerCall(e *ast.CallExpr) (Value, types.Type, error) {
	sig, ok := g.funcs.sigs[e.Name]
	if !ok {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "function %q is not defined", e.Name)
	}
	if len(e.Args) != len(sig.paramTypes) {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "function %q takes %d argument(s), found %d", e.Name, len(sig.paramTypes), len(e.Args))
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		val, t, err := g.lowerExpr(a)
		if err != nil {
			return Value{}, types.Type{}, err
		}
		coerced, err := g.coerce(val, t, sig.paramTypes[i], a.Pos(), "argument")
		if err != nil {
			return Value{}, types.Type{}, err
		}
		args[i] = coerced
	}

	return g.backend.Call(sig.handle, args), sig.returnType, nil
}

func (g *Generator) lowerArrayIndex(e *ast.ArrayIndexExpr) (Value, types.Type, error) {
	b, ok := g.scopes.resolve(e.Name)
	if !ok {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "variable %q is not defined", e.Name)
	}
	if !b.typ.IsArray() {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "%q is not an array", e.Name)
	}
	idxVal, idxType, err := g.lowerExpr(e.Index)
	if err != nil {
		return Value{}, types.Type{}, err
	}
	if idxType.Primitive != types.Int || idxType.IsArray() {
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "array index must be Int, found %s", idxType)
	}
	elemType := b.typ.Element()
	ptr := g.backend.Load(b.slot, TypePtr)
	addr := g.backend.ElementPtr(ptr, idxVal, toBackendType(elemType))
	return g.backend.Load(addr, toBackendType(elemType)), elemType, nil
}

// coerce converts val of type from to type to, applying the implicit
// scalar coercion lattice (spec.md §4.I) and rejecting anything else,
// including any attempt to coerce an array (arrays are never implicitly
// converted; a target array type must match exactly).
func (g *Generator) coerce(val Value, from, to types.Type, pos token.Position, what string) (Value, error) {
	if from.Equal(to) {
		return val, nil
	}
	if from.IsArray() || to.IsArray() {
		return Value{}, ferr.NewAt(ferr.Semantic, pos, "%s: cannot convert %s to %s", what, from, to)
	}
	if !types.Convertible(from.Primitive, to.Primitive) {
		return Value{}, ferr.NewAt(ferr.Semantic, pos, "%s: cannot convert %s to %s", what, from, to)
	}
	return g.convertScalar(val, from.Primitive, to.Primitive), nil
}

// coerceScalar is coerce without the "what" label, used internally by
// binary-operator lowering once PreferredBinary has already chosen a target.
func (g *Generator) coerceScalar(val Value, from, to types.Type, pos token.Position) (Value, error) {
	return g.coerce(val, from, to, pos, "operand")
}

func (g *Generator) coerceToBool(val Value, from types.Type, pos token.Position) (Value, error) {
	if from.IsArray() || !types.ConvertibleToBool(from.Primitive) {
		return Value{}, ferr.NewAt(ferr.Semantic, pos, "cannot use %s where a Bool is required", from)
	}
	if from.Primitive == types.Bool {
		return val, nil
	}
	return g.convertScalar(val, from.Primitive, types.Bool), nil
}

func (g *Generator) convertScalar(val Value, from, to types.Primitive) Value {
	switch {
	case from == types.Int && to == types.Float:
		return g.backend.ConvertIntToFloat(val)
	case from == types.Float && to == types.Int:
		return g.backend.ConvertFloatToInt(val)
	case from == types.Int && to == types.Bool:
		return g.backend.ConvertIntToBool(val)
	case from == types.Float && to == types.Bool:
		return g.backend.ConvertFloatToBool(val)
	case from == types.Bool && to == types.Int:
		return g.backend.ConvertBoolToInt(val)
	case from == types.Bool && to == types.Float:
		return g.backend.ConvertBoolToFloat(val)
	default:
		return val
	}
}
