package lang

import "strings"

// Value is the result of evaluating an expression.
type Value interface {
	value()
}

// Integer is a 64-bit signed integer value.
type Integer int64

// Function is a callable value. Closure holds a snapshot of the environment
// at definition time, so later rebindings in the defining scope do not leak
// into the function body.
type Function struct {
	Params  []string
	Body    Node
	Src     string
	Closure *Environment
}

func (Integer) value()   {}
func (*Function) value() {}

// Signature renders the function the way it was written: {body} or
// {[x;y] body}.
func (f *Function) Signature() string {
	if len(f.Params) == 0 {
		return "{" + f.Src + "}"
	}
	return "{[" + strings.Join(f.Params, ";") + "] " + f.Src + "}"
}

// Environment is a lexical scope: bindings plus an optional parent scope.
type Environment struct {
	bindings map[string]Value
	parent   *Environment
}

// NewEnvironment creates an empty global scope.
func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]Value)}
}

// NewEnclosed creates a child scope of parent.
func NewEnclosed(parent *Environment) *Environment {
	return &Environment{bindings: make(map[string]Value), parent: parent}
}

// Define binds name to v in this scope.
func (e *Environment) Define(name string, v Value) {
	e.bindings[name] = v
}

// Lookup searches this scope and then the parent chain.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Len reports the number of bindings in this scope, parents excluded.
func (e *Environment) Len() int {
	return len(e.bindings)
}

// snapshot copies this scope's bindings; the parent chain is shared.
func (e *Environment) snapshot() *Environment {
	cp := &Environment{
		bindings: make(map[string]Value, len(e.bindings)),
		parent:   e.parent,
	}
	for k, v := range e.bindings {
		cp.bindings[k] = v
	}
	return cp
}
