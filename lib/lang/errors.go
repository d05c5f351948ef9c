package lang

import "fmt"

// Span is a byte range in the source text.
type Span struct {
	Start int
	End   int
}

// ErrorKind enumerates everything that can go wrong while evaluating code.
type ErrorKind int

const (
	SyntaxError ErrorKind = iota
	DivisionByZero
	IntegerOverflow
	NegativeExponent
	ExponentTooLarge
	FactorialOfNegative
	FactorialTooLarge
	InvalidNumber
	UnknownOperator
	MissingOperand
	UndefinedName
	NotAFunction
	ArityMismatch
	OtherError
)

// Code returns a machine-readable code for this error kind.
func (k ErrorKind) Code() string {
	switch k {
	case SyntaxError:
		return "SYNTAX_ERROR"
	case DivisionByZero:
		return "DIVISION_BY_ZERO"
	case IntegerOverflow:
		return "INTEGER_OVERFLOW"
	case NegativeExponent:
		return "NEGATIVE_EXPONENT"
	case ExponentTooLarge:
		return "EXPONENT_TOO_LARGE"
	case FactorialOfNegative:
		return "FACTORIAL_OF_NEGATIVE"
	case FactorialTooLarge:
		return "FACTORIAL_TOO_LARGE"
	case InvalidNumber:
		return "INVALID_NUMBER"
	case UnknownOperator:
		return "UNKNOWN_OPERATOR"
	case MissingOperand:
		return "MISSING_OPERAND"
	case UndefinedName:
		return "UNDEFINED_NAME"
	case NotAFunction:
		return "NOT_A_FUNCTION"
	case ArityMismatch:
		return "ARITY_MISMATCH"
	default:
		return "OTHER_ERROR"
	}
}

func (k ErrorKind) message() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case DivisionByZero:
		return "division by zero"
	case IntegerOverflow:
		return "integer overflow"
	case NegativeExponent:
		return "negative exponent"
	case ExponentTooLarge:
		return "exponent too large"
	case FactorialOfNegative:
		return "factorial of negative number"
	case FactorialTooLarge:
		return "factorial too large"
	case InvalidNumber:
		return "invalid number"
	case UnknownOperator:
		return "unknown operator"
	case MissingOperand:
		return "missing operand"
	case UndefinedName:
		return "undefined name"
	case NotAFunction:
		return "cannot call non-function value"
	case ArityMismatch:
		return "wrong number of arguments"
	default:
		return "evaluation error"
	}
}

// EvalError is a typed evaluation failure with a source span.
type EvalError struct {
	Kind   ErrorKind
	Detail string
	Span   Span
}

func (e *EvalError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind.message(), e.Detail)
	}
	return e.Kind.message()
}

func newError(kind ErrorKind, span Span) *EvalError {
	return &EvalError{Kind: kind, Span: span}
}

func newErrorf(kind ErrorKind, span Span, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Span: span, Detail: fmt.Sprintf(format, args...)}
}
