package ir

// binding pairs a type with whether it was declared in the *current*
// lexical scope (as opposed to inherited from an enclosing one). Only a
// binding declared in the current scope blocks a redeclaration of the
// same name; an inherited binding may be shadowed freely.
type binding struct {
	typ           Type
	declaredHere  bool
}

// TypeContext is a lexically scoped environment mapping identifiers to
// types. entering a new scope keeps every inherited binding visible but
// marks it as not locally declared, so the same name may be shadowed; a
// new function scope additionally clears ReturnType to the function's
// declared return type.
type TypeContext struct {
	env        map[string]binding
	ReturnType Type
}

// NewTypeContext returns an empty top-level context.
func NewTypeContext() *TypeContext {
	return &TypeContext{env: make(map[string]binding), ReturnType: Void}
}

// Get looks up id, returning Undeclared if it is not bound anywhere in the
// visible scope chain.
func (c *TypeContext) Get(pos Pos, id string) (Type, error) {
	if b, ok := c.env[id]; ok {
		return b.typ, nil
	}
	return Type{}, errUndeclared(pos, id)
}

// Add binds id to t in the current scope. It fails with Redefinition iff
// id is already bound in the *current* scope; shadowing an inherited
// binding is allowed.
func (c *TypeContext) Add(pos Pos, id string, t Type) error {
	if b, ok := c.env[id]; ok && b.declaredHere {
		return errRedefinition(pos, id)
	}
	c.env[id] = binding{typ: t, declaredHere: true}
	return nil
}

// clone copies the environment, marking every binding as inherited (not
// locally declared) so the copy is ready to become a child scope.
func (c *TypeContext) clone() *TypeContext {
	env := make(map[string]binding, len(c.env))
	for k, b := range c.env {
		env[k] = binding{typ: b.typ, declaredHere: false}
	}
	return &TypeContext{env: env, ReturnType: c.ReturnType}
}

// NewScope returns a child context for a nested block/if/while body: all
// current bindings are visible but none may be redeclared-over without
// first being shadowed the ordinary way (re-adding a name in the child
// simply shadows, since declaredHere was reset to false by clone).
func (c *TypeContext) NewScope() *TypeContext {
	return c.clone()
}

// NewFunctionScope returns a child context for a function body: bindings
// from the enclosing (global) scope remain visible -- this is how callees
// can see sibling function signatures -- and ReturnType is set to ret.
func (c *TypeContext) NewFunctionScope(ret Type) *TypeContext {
	child := c.clone()
	child.ReturnType = ret
	return child
}
