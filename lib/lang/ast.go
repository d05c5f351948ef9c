package lang

// Node is a parsed syntax tree node.
type Node interface {
	Span() Span
}

// NumberLit is an integer literal.
type NumberLit struct {
	Value int64
	span  Span
}

// Ident is a variable or function reference.
type Ident struct {
	Name string
	span Span
}

// Unary is prefix negation.
type Unary struct {
	Operand Node
	span    Span
}

// Binary is one of + - * / %.
type Binary struct {
	Op    string
	Left  Node
	Right Node
	span  Span
}

// Power is base^exponent, right associative.
type Power struct {
	Base     Node
	Exponent Node
	span     Span
}

// Factorial is postfix '!'.
type Factorial struct {
	Operand Node
	span    Span
}

// Assign binds a name in the current environment: name: expr.
type Assign struct {
	Name  string
	Value Node
	span  Span
}

// FuncLit is {expr} or {[x;y] expr}. Src keeps the body text verbatim for
// display surfaces.
type FuncLit struct {
	Params []string
	Body   Node
	Src    string
	span   Span
}

// Call is a bracket application: f[2;3].
type Call struct {
	Fn   Node
	Args []Node
	span Span
}

func (n *NumberLit) Span() Span { return n.span }
func (n *Ident) Span() Span     { return n.span }
func (n *Unary) Span() Span     { return n.span }
func (n *Binary) Span() Span    { return n.span }
func (n *Power) Span() Span     { return n.span }
func (n *Factorial) Span() Span { return n.span }
func (n *Assign) Span() Span    { return n.span }
func (n *FuncLit) Span() Span   { return n.span }
func (n *Call) Span() Span      { return n.span }
