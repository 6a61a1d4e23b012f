// Package textir is codegen.Backend's reference implementation: it renders
// a small LLVM-flavored textual SSA IR instead of driving a real compiler
// backend library, standing in for the "opaque Backend" spec.md §1/§9
// describes without binding this module to a specific one.
package textir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/minic/internal/codegen"
	"github.com/dekarrin/minic/internal/ids"
)

type blockState struct {
	label      string
	instrs     []string
	terminated bool
}

type funcState struct {
	name       string
	external   bool
	variadic   bool
	retType    codegen.BackendType
	paramTypes []codegen.BackendType
	order      []string
	blocks     map[string]*blockState
}

// Backend accumulates one module's worth of declared/defined functions and
// renders them as text on EmitText. It is not safe for concurrent use; a
// Generator owns exactly one Backend per compile (spec.md §3 Lifecycles).
type Backend struct {
	moduleName string
	funcs      []*funcState
	byName     map[string]*funcState
	cur        *funcState
	curBlock   string

	regSeq   *ids.Sequence
	strSeq   *ids.Sequence
	strConst []string
	strByVal map[string]string
}

// New returns a Backend ready for NewModule.
func New() *Backend {
	return &Backend{byName: map[string]*funcState{}, strByVal: map[string]string{}}
}

func (b *Backend) NewModule(name string) {
	b.moduleName = name
	b.funcs = nil
	b.byName = map[string]*funcState{}
	b.cur = nil
	b.curBlock = ""
	b.regSeq = ids.NewSequence()
	b.strSeq = ids.NewSequence()
	b.strConst = nil
	b.strByVal = map[string]string{}
}

func typeName(t codegen.BackendType) string {
	switch t {
	case codegen.TypeI32:
		return "i32"
	case codegen.TypeF64:
		return "double"
	case codegen.TypeI1:
		return "i1"
	case codegen.TypePtr:
		return "ptr"
	default:
		return "void"
	}
}

func (b *Backend) newReg(t codegen.BackendType) codegen.Value {
	return codegen.Value{ID: "%" + b.regSeq.Next("r"), Type: t}
}

func (b *Backend) emit(line string) {
	blk := b.cur.blocks[b.curBlock]
	blk.instrs = append(blk.instrs, line)
}

func (b *Backend) DeclareExternal(name string, ret codegen.BackendType, params []codegen.BackendType, variadic bool) codegen.Func {
	fs := &funcState{name: name, external: true, variadic: variadic, retType: ret, paramTypes: params, blocks: map[string]*blockState{}}
	b.funcs = append(b.funcs, fs)
	b.byName[name] = fs
	return codegen.Func{ID: name, ReturnType: ret, ParamTypes: params}
}

func (b *Backend) DefineFunction(name string, ret codegen.BackendType, params []codegen.BackendType) codegen.Func {
	fs := &funcState{name: name, retType: ret, paramTypes: params, blocks: map[string]*blockState{}}
	b.funcs = append(b.funcs, fs)
	b.byName[name] = fs
	return codegen.Func{ID: name, ReturnType: ret, ParamTypes: params}
}

func (b *Backend) Param(fn codegen.Func, i int) codegen.Value {
	return codegen.Value{ID: fmt.Sprintf("%%arg.%s.%d", fn.ID, i), Type: fn.ParamTypes[i]}
}

func (b *Backend) BeginBlock(fn codegen.Func, name string) codegen.Block {
	fs := b.byName[fn.ID]
	b.cur = fs
	label := name
	fs.order = append(fs.order, label)
	fs.blocks[label] = &blockState{label: label}
	return codegen.Block{ID: label}
}

func (b *Backend) SetInsertPoint(blk codegen.Block) {
	b.curBlock = blk.ID
}

func (b *Backend) BlockTerminated(blk codegen.Block) bool {
	bs, ok := b.cur.blocks[blk.ID]
	if !ok {
		return false
	}
	return bs.terminated
}

func (b *Backend) Alloca(fn codegen.Func, name string, t codegen.BackendType) codegen.Value {
	v := codegen.Value{ID: "%" + name + "." + b.regSeq.Next("slot"), Type: codegen.TypePtr}
	b.emit(fmt.Sprintf("%s = alloca %s", v.ID, typeName(t)))
	return v
}

func (b *Backend) ElementPtr(base, index codegen.Value, elemType codegen.BackendType) codegen.Value {
	v := b.newReg(codegen.TypePtr)
	b.emit(fmt.Sprintf("%s = getelementptr %s, ptr %s, %s %s", v.ID, typeName(elemType), base.ID, typeName(index.Type), index.ID))
	return v
}

func (b *Backend) Store(ptr, val codegen.Value) {
	b.emit(fmt.Sprintf("store %s %s, ptr %s", typeName(val.Type), val.ID, ptr.ID))
}

func (b *Backend) Load(ptr codegen.Value, t codegen.BackendType) codegen.Value {
	v := b.newReg(t)
	b.emit(fmt.Sprintf("%s = load %s, ptr %s", v.ID, typeName(t), ptr.ID))
	return v
}

func (b *Backend) ConstInt(v int64) codegen.Value {
	return codegen.Value{ID: strconv.FormatInt(v, 10), Type: codegen.TypeI32}
}

func (b *Backend) ConstFloat(v float64) codegen.Value {
	return codegen.Value{ID: strconv.FormatFloat(v, 'g', -1, 64), Type: codegen.TypeF64}
}

func (b *Backend) ConstBool(v bool) codegen.Value {
	if v {
		return codegen.Value{ID: "true", Type: codegen.TypeI1}
	}
	return codegen.Value{ID: "false", Type: codegen.TypeI1}
}

func (b *Backend) ConstString(v string) codegen.Value {
	if name, ok := b.strByVal[v]; ok {
		return codegen.Value{ID: name, Type: codegen.TypePtr}
	}
	name := "@.str." + b.strSeq.Next("s")
	b.strConst = append(b.strConst, fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c%s\\00\"", name, len(v)+1, strconv.Quote(v)))
	b.strByVal[v] = name
	return codegen.Value{ID: name, Type: codegen.TypePtr}
}

func (b *Backend) ConstNullPtr() codegen.Value {
	return codegen.Value{ID: "null", Type: codegen.TypePtr}
}

func (b *Backend) NegInt(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeI32)
	b.emit(fmt.Sprintf("%s = sub i32 0, %s", r.ID, v.ID))
	return r
}

func (b *Backend) NegFloat(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeF64)
	b.emit(fmt.Sprintf("%s = fneg double %s", r.ID, v.ID))
	return r
}

func (b *Backend) Not(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeI1)
	b.emit(fmt.Sprintf("%s = xor i1 %s, true", r.ID, v.ID))
	return r
}

var binOpMnemonic = map[codegen.BinOpKind]string{
	codegen.OpAdd: "add", codegen.OpSub: "sub", codegen.OpMul: "mul",
	codegen.OpDiv: "div", codegen.OpMod: "rem",
	codegen.OpAnd: "and", codegen.OpOr: "or",
	codegen.OpEq: "eq", codegen.OpNe: "ne",
	codegen.OpLt: "lt", codegen.OpGt: "gt", codegen.OpLe: "le", codegen.OpGe: "ge",
}

func isComparison(op codegen.BinOpKind) bool {
	switch op {
	case codegen.OpEq, codegen.OpNe, codegen.OpLt, codegen.OpGt, codegen.OpLe, codegen.OpGe:
		return true
	default:
		return false
	}
}

func (b *Backend) BinOp(op codegen.BinOpKind, operandType codegen.BackendType, l, r codegen.Value) codegen.Value {
	mnem := binOpMnemonic[op]
	tn := typeName(operandType)

	if isComparison(op) {
		res := b.newReg(codegen.TypeI1)
		prefix := "icmp"
		if operandType == codegen.TypeF64 {
			prefix = "fcmp"
		}
		if operandType == codegen.TypePtr {
			prefix = "icmp" // pointer (in)equality
		}
		b.emit(fmt.Sprintf("%s = %s %s %s %s, %s", res.ID, prefix, mnem, tn, l.ID, r.ID))
		return res
	}

	res := b.newReg(operandType)
	instr := mnem
	if operandType == codegen.TypeF64 {
		instr = "f" + mnem
	}
	b.emit(fmt.Sprintf("%s = %s %s %s, %s", res.ID, instr, tn, l.ID, r.ID))
	return res
}

func (b *Backend) ConvertIntToFloat(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeF64)
	b.emit(fmt.Sprintf("%s = sitofp i32 %s to double", r.ID, v.ID))
	return r
}

func (b *Backend) ConvertFloatToInt(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeI32)
	b.emit(fmt.Sprintf("%s = fptosi double %s to i32", r.ID, v.ID))
	return r
}

func (b *Backend) ConvertIntToBool(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeI1)
	b.emit(fmt.Sprintf("%s = icmp ne i32 %s, 0", r.ID, v.ID))
	return r
}

func (b *Backend) ConvertFloatToBool(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeI1)
	b.emit(fmt.Sprintf("%s = fcmp one double %s, 0.0", r.ID, v.ID))
	return r
}

func (b *Backend) ConvertBoolToInt(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeI32)
	b.emit(fmt.Sprintf("%s = zext i1 %s to i32", r.ID, v.ID))
	return r
}

func (b *Backend) ConvertBoolToFloat(v codegen.Value) codegen.Value {
	r := b.newReg(codegen.TypeF64)
	b.emit(fmt.Sprintf("%s = uitofp i1 %s to double", r.ID, v.ID))
	return r
}

func (b *Backend) CondBr(cond codegen.Value, thenBlk, elseBlk codegen.Block) {
	b.emit(fmt.Sprintf("br i1 %s, label %%%s, label %%%s", cond.ID, thenBlk.ID, elseBlk.ID))
	b.cur.blocks[b.curBlock].terminated = true
}

func (b *Backend) Jump(blk codegen.Block) {
	b.emit(fmt.Sprintf("br label %%%s", blk.ID))
	b.cur.blocks[b.curBlock].terminated = true
}

func (b *Backend) Call(fn codegen.Func, args []codegen.Value) codegen.Value {
	fs := b.byName[fn.ID]
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = typeName(a.Type) + " " + a.ID
	}
	callText := fmt.Sprintf("call %s @%s(%s)", typeName(fs.retType), fs.name, strings.Join(parts, ", "))
	if fs.retType == codegen.TypeVoid {
		b.emit(callText)
		return codegen.Value{}
	}
	res := b.newReg(fs.retType)
	b.emit(fmt.Sprintf("%s = %s", res.ID, callText))
	return res
}

func (b *Backend) Ret(val codegen.Value, hasVal bool) {
	if !hasVal {
		b.emit("ret void")
	} else {
		b.emit(fmt.Sprintf("ret %s %s", typeName(val.Type), val.ID))
	}
	b.cur.blocks[b.curBlock].terminated = true
}

func (b *Backend) EmitText() string {
	var out strings.Builder
	fmt.Fprintf(&out, "; module %s\n", b.moduleName)
	for _, s := range b.strConst {
		fmt.Fprintln(&out, s)
	}
	for _, fs := range b.funcs {
		if fs.external {
			variadicSuffix := ""
			if fs.variadic {
				variadicSuffix = ", ..."
			}
			params := make([]string, len(fs.paramTypes))
			for i, p := range fs.paramTypes {
				params[i] = typeName(p)
			}
			fmt.Fprintf(&out, "declare %s @%s(%s%s)\n", typeName(fs.retType), fs.name, strings.Join(params, ", "), variadicSuffix)
			continue
		}
		params := make([]string, len(fs.paramTypes))
		for i, p := range fs.paramTypes {
			params[i] = fmt.Sprintf("%s %%arg.%s.%d", typeName(p), fs.name, i)
		}
		fmt.Fprintf(&out, "define %s @%s(%s) {\n", typeName(fs.retType), fs.name, strings.Join(params, ", "))
		for _, label := range fs.order {
			blk := fs.blocks[label]
			fmt.Fprintf(&out, "%s:\n", label)
			for _, instr := range blk.instrs {
				fmt.Fprintf(&out, "  %s\n", instr)
			}
		}
		fmt.Fprintln(&out, "}")
	}
	return out.String()
}

// EmitObject is not implemented: textir has no object-emission backend of
// its own (no real target codegen, no assembler invocation). A Backend
// wired to an actual toolchain (e.g. an LLVM binding) would implement this;
// textir exists to exercise the Generator end to end via EmitText.
func (b *Backend) EmitObject(path, targetTriple string) error {
	return fmt.Errorf("textir: EmitObject not supported, use EmitText and an external assembler")
}

// VerifyFunction runs the few structural checks textir can confirm: every
// declared block was eventually terminated. A real backend would check far
// more (type-correctness of every instruction, dominance, etc); codegen's
// Generator already enforces the invariants that matter for this module's
// source language (every path returns, operand types agree) before calling
// this, so this check is a last line of defense rather than the only one.
func (b *Backend) VerifyFunction(fn codegen.Func) (bool, string) {
	fs, ok := b.byName[fn.ID]
	if !ok {
		return false, fmt.Sprintf("unknown function %q", fn.ID)
	}
	for _, label := range fs.order {
		if !fs.blocks[label].terminated {
			return false, fmt.Sprintf("block %q in function %q has no terminator", label, fn.ID)
		}
	}
	return true, ""
}
