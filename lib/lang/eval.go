// Package lang implements the wabznasm expression language: checked 64-bit
// integer arithmetic, assignments, and first-class functions with closures,
// in a Q/KDB-flavored surface syntax.
//
// Examples: 1+2, 2^10, 5!, x: 42, f: {x+1}, add: {[x;y] x+y}, add[2;3].
package lang

import "math"

const (
	maxExponent  = 63
	maxFactorial = 20
)

// Eval parses and evaluates src against env. All statements run in order;
// the value of the last one is returned. A nil Value with a nil error means
// the input held no statements (empty or comment-only source).
func Eval(src string, env *Environment) (Value, *EvalError) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	var last Value
	for _, stmt := range stmts {
		v, err := evalNode(stmt, env)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func evalNode(n Node, env *Environment) (Value, *EvalError) {
	switch node := n.(type) {
	case *NumberLit:
		return Integer(node.Value), nil

	case *Ident:
		if v, ok := env.Lookup(node.Name); ok {
			return v, nil
		}
		return nil, newErrorf(UndefinedName, node.Span(), "%s", node.Name)

	case *Unary:
		operand, err := evalInteger(node.Operand, env)
		if err != nil {
			return nil, err
		}
		if operand == math.MinInt64 {
			return nil, newErrorf(IntegerOverflow, node.Span(), "negation")
		}
		return Integer(-operand), nil

	case *Binary:
		return evalBinary(node, env)

	case *Power:
		return evalPower(node, env)

	case *Factorial:
		operand, err := evalInteger(node.Operand, env)
		if err != nil {
			return nil, err
		}
		return factorial(operand, node.Span())

	case *Assign:
		v, err := evalNode(node.Value, env)
		if err != nil {
			return nil, err
		}
		env.Define(node.Name, v)
		return v, nil

	case *FuncLit:
		return &Function{
			Params:  node.Params,
			Body:    node.Body,
			Src:     node.Src,
			Closure: env.snapshot(),
		}, nil

	case *Call:
		return evalCall(node, env)
	}
	return nil, newErrorf(OtherError, n.Span(), "unexpected node type %T", n)
}

func evalInteger(n Node, env *Environment) (int64, *EvalError) {
	v, err := evalNode(n, env)
	if err != nil {
		return 0, err
	}
	i, ok := v.(Integer)
	if !ok {
		return 0, newErrorf(OtherError, n.Span(), "expected integer in arithmetic")
	}
	return int64(i), nil
}

func evalBinary(node *Binary, env *Environment) (Value, *EvalError) {
	left, err := evalInteger(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := evalInteger(node.Right, env)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "+":
		sum := left + right
		if (left > 0 && right > 0 && sum < 0) || (left < 0 && right < 0 && sum >= 0) {
			return nil, newErrorf(IntegerOverflow, node.Span(), "addition")
		}
		return Integer(sum), nil
	case "-":
		diff := left - right
		if (left >= 0 && right < 0 && diff < 0) || (left < 0 && right > 0 && diff >= 0) {
			return nil, newErrorf(IntegerOverflow, node.Span(), "subtraction")
		}
		return Integer(diff), nil
	case "*":
		product, ok := checkedMul(left, right)
		if !ok {
			return nil, newErrorf(IntegerOverflow, node.Span(), "multiplication")
		}
		return Integer(product), nil
	case "/":
		if right == 0 {
			return nil, newError(DivisionByZero, node.Span())
		}
		if left == math.MinInt64 && right == -1 {
			return nil, newErrorf(IntegerOverflow, node.Span(), "division")
		}
		return Integer(left / right), nil
	case "%":
		if right == 0 {
			return nil, newError(DivisionByZero, node.Span())
		}
		return Integer(left % right), nil
	}
	return nil, newErrorf(UnknownOperator, node.Span(), "%s", node.Op)
}

func evalPower(node *Power, env *Environment) (Value, *EvalError) {
	base, err := evalInteger(node.Base, env)
	if err != nil {
		return nil, err
	}
	exp, err := evalInteger(node.Exponent, env)
	if err != nil {
		return nil, err
	}
	if exp < 0 {
		return nil, newError(NegativeExponent, node.Span())
	}
	if exp > maxExponent {
		return nil, newError(ExponentTooLarge, node.Span())
	}
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		var ok bool
		result, ok = checkedMul(result, base)
		if !ok {
			return nil, newErrorf(IntegerOverflow, node.Span(), "exponentiation")
		}
	}
	return Integer(result), nil
}

func evalCall(node *Call, env *Environment) (Value, *EvalError) {
	fnValue, err := evalNode(node.Fn, env)
	if err != nil {
		return nil, err
	}
	fn, ok := fnValue.(*Function)
	if !ok {
		return nil, newError(NotAFunction, node.Fn.Span())
	}
	if len(node.Args) != len(fn.Params) {
		return nil, newErrorf(ArityMismatch, node.Span(),
			"expected %d, got %d", len(fn.Params), len(node.Args))
	}
	args := make([]Value, len(node.Args))
	for i, argNode := range node.Args {
		args[i], err = evalNode(argNode, env)
		if err != nil {
			return nil, err
		}
	}
	// The body runs in the closure scope, not the caller's.
	callEnv := NewEnclosed(fn.Closure)
	for i, param := range fn.Params {
		callEnv.Define(param, args[i])
	}
	return evalNode(fn.Body, callEnv)
}

func factorial(n int64, span Span) (Value, *EvalError) {
	if n < 0 {
		return nil, newError(FactorialOfNegative, span)
	}
	if n > maxFactorial {
		return nil, newError(FactorialTooLarge, span)
	}
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return Integer(result), nil
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == -1 && b == math.MinInt64 || b == -1 && a == math.MinInt64 {
		return 0, false
	}
	product := a * b
	if product/b != a {
		return 0, false
	}
	return product, true
}
