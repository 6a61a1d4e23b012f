package codegen

import "github.com/dekarrin/minic/internal/types"

// binding is one name's storage slot and declared type within a scope.
type binding struct {
	slot Value
	typ  types.Type
}

// scope is one frame of the scope chain: a name -> binding map for the
// block or function parameter list it was pushed for.
type scope struct {
	names map[string]binding
}

func newScope() *scope {
	return &scope{names: map[string]binding{}}
}

// scopeChain is a stack of scopes searched innermost-first for identifier
// resolution (spec.md §3's Scope chain). Declarations apply to the top
// frame only; push/pop must pair around every block and function body.
type scopeChain struct {
	frames []*scope
}

func newScopeChain() *scopeChain {
	return &scopeChain{}
}

func (c *scopeChain) push() {
	c.frames = append(c.frames, newScope())
}

func (c *scopeChain) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *scopeChain) top() *scope {
	return c.frames[len(c.frames)-1]
}

// declare binds name in the innermost frame. ok is false if name is already
// bound in that frame (redeclaration, spec.md §7 SemanticError).
func (c *scopeChain) declare(name string, slot Value, t types.Type) bool {
	top := c.top()
	if _, exists := top.names[name]; exists {
		return false
	}
	top.names[name] = binding{slot: slot, typ: t}
	return true
}

// resolve searches frames innermost-first for name.
func (c *scopeChain) resolve(name string) (binding, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if b, ok := c.frames[i].names[name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// funcSig is a declared function's signature, as registered before any
// call site is lowered (spec.md §5, §9: two-pass driver so call order in
// source is irrelevant).
type funcSig struct {
	handle     Func
	returnType types.Type
	paramTypes []types.Type
}

// funcRegistry maps source-level function names to their lowered
// signatures, populated in a first pass over the whole Program before any
// body is lowered.
type funcRegistry struct {
	sigs map[string]funcSig
}

func newFuncRegistry() *funcRegistry {
	return &funcRegistry{sigs: map[string]funcSig{}}
}
