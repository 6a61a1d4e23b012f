package codegen

import (
	"fmt"

	"github.com/dekarrin/minic/internal/ast"
	"github.com/dekarrin/minic/internal/ferr"
	"github.com/dekarrin/minic/internal/ids"
	"github.com/dekarrin/minic/internal/token"
	"github.com/dekarrin/minic/internal/types"
)

// printfName and scanfName are the conventional names spec.md §4.J gives the
// two pre-declared variadic builtins.
const (
	printfName = "printf"
	scanfName  = "scanf"
)

// Generator lowers one ast.Program to a Backend's IR. A Generator owns
// exactly one scopeChain and one funcRegistry per run (spec.md §3
// Lifecycles); construct a fresh Generator for each compile.
type Generator struct {
	backend Backend

	scopes  *scopeChain
	funcs   *funcRegistry
	printfH Func
	scanfH  Func

	curFunc    Func
	curRetType types.Type
	// curBlock is the block lowering is currently emitting into. codegen
	// tracks this itself rather than asking the backend, since Backend's
	// BlockTerminated takes an explicit block handle.
	curBlock Block
	// blockSeq keeps every block name unique within a function even when
	// two statements pick the same hint (e.g. two sibling ifs each naming
	// their merge block "continue").
	blockSeq *ids.Sequence
	// merges tracks every if/else continue block for the function currently
	// being lowered, in construction order (spec.md §4.J invariant): an
	// if/else whose arms both terminate leaves its continue block with no
	// incoming branch at all, and that block must not be mistaken for a
	// live path requiring its own return.
	merges []mergeBlock
}

// mergeBlock is one if/else continue block, paired with whether any arm
// actually branches to it.
type mergeBlock struct {
	blk       Block
	reachable bool
}

// New constructs a Generator targeting backend.
func New(backend Backend) *Generator {
	return &Generator{backend: backend}
}

// Generate lowers prog to backend's IR, declaring printf/scanf, registering
// every function's signature in a first pass, then lowering every body in a
// second pass so forward calls across functions work regardless of source
// order (spec.md §5, §9).
func (g *Generator) Generate(prog *ast.Program, moduleName string) error {
	g.backend.NewModule(moduleName)
	g.scopes = newScopeChain()
	g.funcs = newFuncRegistry()
	g.blockSeq = ids.NewSequence()

	g.printfH = g.backend.DeclareExternal(printfName, TypeI32, []BackendType{TypePtr}, true)
	g.scanfH = g.backend.DeclareExternal(scanfName, TypeI32, []BackendType{TypePtr}, true)

	for _, fn := range prog.Functions {
		if _, exists := g.funcs.sigs[fn.Name]; exists {
			return ferr.NewAt(ferr.Semantic, fn.Pos, "function %q redeclared", fn.Name)
		}
		paramTypes := make([]types.Type, len(fn.Params))
		backendParamTypes := make([]BackendType, len(fn.Params))
		for i, p := range fn.Params {
			paramTypes[i] = p.Type
			backendParamTypes[i] = toBackendType(p.Type)
		}
		handle := g.backend.DefineFunction(fn.Name, toBackendType(fn.ReturnType), backendParamTypes)
		g.funcs.sigs[fn.Name] = funcSig{handle: handle, returnType: fn.ReturnType, paramTypes: paramTypes}
	}

	for _, fn := range prog.Functions {
		if err := g.lowerFunctionBody(fn); err != nil {
			return err
		}
	}

	return nil
}

// EmitText returns the backend's textual IR for the last Generate call.
func (g *Generator) EmitText() string { return g.backend.EmitText() }

// EmitObject writes a host object file for the last Generate call.
func (g *Generator) EmitObject(path, targetTriple string) error {
	return g.backend.EmitObject(path, targetTriple)
}

func toBackendType(t types.Type) BackendType {
	if t.IsArray() {
		return TypePtr
	}
	switch t.Primitive {
	case types.Int:
		return TypeI32
	case types.Float:
		return TypeF64
	case types.Bool:
		return TypeI1
	case types.String:
		return TypePtr
	default:
		return TypeVoid
	}
}

func (g *Generator) lowerFunctionBody(fn *ast.Function) error {
	sig := g.funcs.sigs[fn.Name]
	g.curFunc = sig.handle
	g.curRetType = fn.ReturnType

	entry := g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("entry"))
	g.backend.SetInsertPoint(entry)
	g.curBlock = entry
	g.merges = nil

	g.scopes.push()
	for i, p := range fn.Params {
		slot := g.backend.Alloca(g.curFunc, p.Name, toBackendType(p.Type))
		g.backend.Store(slot, g.backend.Param(g.curFunc, i))
		if !g.scopes.declare(p.Name, slot, p.Type) {
			g.scopes.pop()
			return ferr.NewAt(ferr.Semantic, fn.Pos, "parameter %q declared more than once in function %q", p.Name, fn.Name)
		}
	}

	if err := g.lowerStmt(fn.Body); err != nil {
		g.scopes.pop()
		return err
	}
	g.scopes.pop()

	// An if/else whose arms both return leaves its continue block with no
	// incoming branch at all. Such a block is not a live path that owes the
	// function a return; in construction order, chain it to the next
	// continue block instead, and give the last one in the list (which has
	// no successor to chain to) a dead-code return of its own, rather than
	// letting either confuse the check below into rejecting the function.
	for i, m := range g.merges {
		if m.reachable || g.backend.BlockTerminated(m.blk) {
			continue
		}
		g.backend.SetInsertPoint(m.blk)
		if i+1 < len(g.merges) {
			g.backend.Jump(g.merges[i+1].blk)
		} else {
			g.backend.Ret(g.zeroValue(g.curRetType), true)
		}
	}

	if !g.backend.BlockTerminated(g.curBlock) {
		return ferr.NewAt(ferr.Semantic, fn.Pos, "every path must have return statement in function %s", fn.Name)
	}

	if ok, msg := g.backend.VerifyFunction(g.curFunc); !ok {
		return ferr.NewAt(ferr.Backend, fn.Pos, "function %q failed verification: %s", fn.Name, msg)
	}

	return nil
}

func (g *Generator) lowerStmt(s ast.Stmt) error {
	switch s.Kind() {
	case ast.StmtVarDecl:
		return g.lowerVarDecl(s.AsVarDecl())
	case ast.StmtAssign:
		return g.lowerAssign(s.AsAssign())
	case ast.StmtArrayAssign:
		return g.lowerArrayAssign(s.AsArrayAssign())
	case ast.StmtReturn:
		return g.lowerReturn(s.AsReturn())
	case ast.StmtIf:
		return g.lowerIf(s.AsIf())
	case ast.StmtWhile:
		return g.lowerWhile(s.AsWhile())
	case ast.StmtBlock:
		return g.lowerBlock(s.AsBlock())
	case ast.StmtPrint:
		return g.lowerPrint(s.AsPrint())
	case ast.StmtScan:
		return g.lowerScan(s.AsScan())
	case ast.StmtExprCall:
		_, _, err := g.lowerCall(s.AsExprCall().Call)
		return err
	default:
		return ferr.New(ferr.InternalGrammar, "unhandled statement kind %s", s.Kind())
	}
}

func (g *Generator) lowerVarDecl(s *ast.VarDeclStmt) error {
	if _, exists := g.scopes.top().names[s.Name]; exists {
		return ferr.NewAt(ferr.Semantic, s.Pos(), "variable %q redeclared in the same scope", s.Name)
	}

	slot := g.backend.Alloca(g.curFunc, s.Name, toBackendType(s.Type))
	g.backend.Store(slot, g.zeroValue(s.Type))
	g.scopes.declare(s.Name, slot, s.Type)

	if s.Init != nil {
		val, srcType, err := g.lowerExpr(s.Init)
		if err != nil {
			return err
		}
		coerced, err := g.coerce(val, srcType, s.Type, s.Pos(), fmt.Sprintf("variable %q", s.Name))
		if err != nil {
			return err
		}
		g.backend.Store(slot, coerced)
	}

	return nil
}

func (g *Generator) zeroValue(t types.Type) Value {
	if t.IsArray() {
		return g.backend.ConstNullPtr()
	}
	switch t.Primitive {
	case types.Int:
		return g.backend.ConstInt(0)
	case types.Float:
		return g.backend.ConstFloat(0)
	case types.Bool:
		return g.backend.ConstBool(false)
	default: // String
		return g.backend.ConstString("")
	}
}

func (g *Generator) lowerAssign(s *ast.AssignStmt) error {
	b, ok := g.scopes.resolve(s.Name)
	if !ok {
		return ferr.NewAt(ferr.Semantic, s.Pos(), "variable %q is not defined", s.Name)
	}
	val, srcType, err := g.lowerExpr(s.Expr)
	if err != nil {
		return err
	}
	coerced, err := g.coerce(val, srcType, b.typ, s.Pos(), fmt.Sprintf("variable %q", s.Name))
	if err != nil {
		return err
	}
	g.backend.Store(b.slot, coerced)
	return nil
}

func (g *Generator) lowerArrayAssign(s *ast.ArrayAssignStmt) error {
	b, ok := g.scopes.resolve(s.Name)
	if !ok {
		return ferr.NewAt(ferr.Semantic, s.Pos(), "variable %q is not defined", s.Name)
	}
	if !b.typ.IsArray() {
		return ferr.NewAt(ferr.Semantic, s.Pos(), "%q is not an array", s.Name)
	}
	idxVal, idxType, err := g.lowerExpr(s.Index)
	if err != nil {
		return err
	}
	if idxType.Primitive != types.Int || idxType.IsArray() {
		return ferr.NewAt(ferr.Semantic, s.Pos(), "array index must be Int, found %s", idxType)
	}
	elemType := b.typ.Element()
	rhsVal, rhsType, err := g.lowerExpr(s.Expr)
	if err != nil {
		return err
	}
	coerced, err := g.coerce(rhsVal, rhsType, elemType, s.Pos(), fmt.Sprintf("element of %q", s.Name))
	if err != nil {
		return err
	}
	ptr := g.backend.Load(b.slot, TypePtr)
	addr := g.backend.ElementPtr(ptr, idxVal, toBackendType(elemType))
	g.backend.Store(addr, coerced)
	return nil
}

func (g *Generator) lowerReturn(s *ast.ReturnStmt) error {
	if s.Expr == nil {
		if g.curRetType.Primitive != types.Int || g.curRetType.IsArray() {
			return ferr.NewAt(ferr.Semantic, s.Pos(), "function must return a value of type %s", g.curRetType)
		}
		// A bare "return;" in an Int-returning function returns 0 — the
		// default return type (spec.md §9) makes this the common case for
		// functions without an explicit "-> T".
		g.backend.Ret(g.backend.ConstInt(0), true)
		return nil
	}
	val, srcType, err := g.lowerExpr(s.Expr)
	if err != nil {
		return err
	}
	coerced, err := g.coerce(val, srcType, g.curRetType, s.Pos(), "return value")
	if err != nil {
		return err
	}
	g.backend.Ret(coerced, true)
	return nil
}

// lowerIf lowers an if/else into then/else/continue blocks. Either arm may
// already end in a terminator (a return, or a nested if whose own arms all
// return) in which case lowering must not add a second one; BlockTerminated
// against the Generator's own curBlock is how each arm's closing jump to the
// continue block decides whether it is needed. If both arms terminate, the
// continue block ends up with no incoming edge at all; it is still recorded
// in g.merges so lowerFunctionBody can recognize it as dead instead of a
// live path missing a return.
func (g *Generator) lowerIf(s *ast.IfStmt) error {
	condVal, condType, err := g.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	condBit, err := g.coerceToBool(condVal, condType, s.Pos())
	if err != nil {
		return err
	}

	thenBlk := g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("then"))
	var elseBlk Block
	if s.Else != nil {
		elseBlk = g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("else"))
	}
	contBlk := g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("continue"))

	if s.Else != nil {
		g.backend.CondBr(condBit, thenBlk, elseBlk)
	} else {
		g.backend.CondBr(condBit, thenBlk, contBlk)
	}

	// reachable tracks whether any arm actually branches to contBlk. With no
	// else, CondBr's false edge always lands there; with an else, it only
	// gets an edge from an arm that falls through instead of returning.
	reachable := s.Else == nil

	g.backend.SetInsertPoint(thenBlk)
	g.curBlock = thenBlk
	if err := g.lowerStmt(s.Then); err != nil {
		return err
	}
	if !g.backend.BlockTerminated(g.curBlock) {
		g.backend.Jump(contBlk)
		reachable = true
	}

	if s.Else != nil {
		g.backend.SetInsertPoint(elseBlk)
		g.curBlock = elseBlk
		if err := g.lowerStmt(s.Else); err != nil {
			return err
		}
		if !g.backend.BlockTerminated(g.curBlock) {
			g.backend.Jump(contBlk)
			reachable = true
		}
	}

	g.merges = append(g.merges, mergeBlock{blk: contBlk, reachable: reachable})

	g.backend.SetInsertPoint(contBlk)
	g.curBlock = contBlk
	return nil
}

func (g *Generator) lowerWhile(s *ast.WhileStmt) error {
	header := g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("whilehead"))
	body := g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("whilebody"))
	exit := g.backend.BeginBlock(g.curFunc, g.blockSeq.Next("whileexit"))

	g.backend.Jump(header)

	g.backend.SetInsertPoint(header)
	g.curBlock = header
	condVal, condType, err := g.lowerExpr(s.Cond)
	if err != nil {
		return err
	}
	condBit, err := g.coerceToBool(condVal, condType, s.Pos())
	if err != nil {
		return err
	}
	g.backend.CondBr(condBit, body, exit)

	g.backend.SetInsertPoint(body)
	g.curBlock = body
	if err := g.lowerStmt(s.Body); err != nil {
		return err
	}
	if !g.backend.BlockTerminated(g.curBlock) {
		g.backend.Jump(header)
	}

	g.backend.SetInsertPoint(exit)
	g.curBlock = exit
	return nil
}

func (g *Generator) lowerBlock(s *ast.BlockStmt) error {
	g.scopes.push()
	defer g.scopes.pop()

	for _, child := range s.Stmts {
		if g.backend.BlockTerminated(g.curBlock) {
			// subsequent statements are unreachable
			break
		}
		if err := g.lowerStmt(child); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) lowerPrint(s *ast.PrintStmt) error {
	for _, arg := range s.Args {
		val, t, err := g.lowerExpr(arg)
		if err != nil {
			return err
		}
		format, err := g.printFormatFor(t, arg.Pos())
		if err != nil {
			return err
		}
		g.backend.Call(g.printfH, []Value{g.backend.ConstString(format), val})
	}
	return nil
}

// printFormatFor chooses the printf format literal spec.md §4.J / §9
// restrict Print to: "%d\n" for Int, "%f\n" for Float. String and Bool
// printing are rejected as a semantic error, preserving the source's
// restriction rather than silently extending the surface.
func (g *Generator) printFormatFor(t types.Type, pos token.Position) (string, error) {
	if t.IsArray() {
		return "", ferr.NewAt(ferr.Semantic, pos, "cannot print an array value")
	}
	switch t.Primitive {
	case types.Int:
		return "%d\n", nil
	case types.Float:
		return "%f\n", nil
	default:
		return "", ferr.NewAt(ferr.Semantic, pos, "cannot print a value of type %s", t)
	}
}

func (g *Generator) lowerScan(s *ast.ScanStmt) error {
	for _, arg := range s.Args {
		addr, elemType, err := g.lowerAddressable(arg)
		if err != nil {
			return err
		}
		var format string
		switch elemType.Primitive {
		case types.Int:
			format = "%d"
		case types.Float:
			format = "%f"
		default:
			return ferr.NewAt(ferr.Semantic, arg.Pos(), "cannot scan into a value of type %s", elemType)
		}
		g.backend.Call(g.scanfH, []Value{g.backend.ConstString(format), addr})
	}
	return nil
}

// lowerAddressable resolves arg to the address of its storage (an
// identifier's slot, or an array element's computed address), for Scan's
// by-reference argument passing (spec.md §9 Scan option: lower
// symmetrically to Print, addressing each target variable's slot).
func (g *Generator) lowerAddressable(e ast.Expr) (Value, types.Type, error) {
	switch e.Kind() {
	case ast.ExprIdentifier:
		name := e.AsIdentifier().Name
		b, ok := g.scopes.resolve(name)
		if !ok {
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "variable %q is not defined", name)
		}
		return b.slot, b.typ, nil
	case ast.ExprArrayIndex:
		idx := e.AsArrayIndex()
		b, ok := g.scopes.resolve(idx.Name)
		if !ok {
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "variable %q is not defined", idx.Name)
		}
		if !b.typ.IsArray() {
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "%q is not an array", idx.Name)
		}
		idxVal, idxType, err := g.lowerExpr(idx.Index)
		if err != nil {
			return Value{}, types.Type{}, err
		}
		if idxType.Primitive != types.Int || idxType.IsArray() {
			return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "array index must be Int, found %s", idxType)
		}
		elemType := b.typ.Element()
		ptr := g.backend.Load(b.slot, TypePtr)
		addr := g.backend.ElementPtr(ptr, idxVal, toBackendType(elemType))
		return addr, elemType, nil
	default:
		return Value{}, types.Type{}, ferr.NewAt(ferr.Semantic, e.Pos(), "scan argument must be a variable or array element")
	}
}
