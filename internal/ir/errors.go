package ir

import (
	"fmt"
	"strings"
)

// TypeErrorKind tags the distinct ways a program can fail semantic
// analysis, mirroring spec.md §7.
type TypeErrorKind int

const (
	Undeclared TypeErrorKind = iota
	Redefinition
	OpNotDefined
	Incompatible
	NotAFunction
	InvalidArgCount
	InvalidArgType
	InvalidMainType
	MissingMain
	VoidReturnValue
	VoidArgument
	VoidDeclaration
)

// TypeError is returned by the type checker. It carries a breadcrumb stack
// of pretty-printed enclosing syntactic constructs, pushed by each
// recursive check as the error bubbles back up to Check, so the final
// diagnostic reads as a stack of "in: <construct>" frames the way the
// reference implementation's ErrStack did.
type TypeError struct {
	Kind TypeErrorKind
	Msg  string
	Pos  Pos
	Stack []string
}

func (e *TypeError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Pos, e.Msg)
	for _, frame := range e.Stack {
		fmt.Fprintf(&sb, "\nin:\n%s", frame)
	}
	return sb.String()
}

// WithinStmt pushes a breadcrumb frame for the enclosing statement and
// returns the same error so call sites can write `return nil, err.WithinStmt(s)`.
func (e *TypeError) WithinStmt(s Stmt) *TypeError {
	e.Stack = append(e.Stack, strings.TrimRight(PrintStmt(s), "\n"))
	return e
}

// WithinExpr pushes a breadcrumb frame for the enclosing expression.
func (e *TypeError) WithinExpr(x Expr) *TypeError {
	e.Stack = append(e.Stack, PrintExpr(x))
	return e
}

func newTypeError(kind TypeErrorKind, pos Pos, format string, args ...interface{}) *TypeError {
	return &TypeError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func errUndeclared(pos Pos, name string) *TypeError {
	return newTypeError(Undeclared, pos, "use of undeclared identifier %s", name)
}

func errRedefinition(pos Pos, name string) *TypeError {
	return newTypeError(Redefinition, pos, "redefinition of identifier %s", name)
}

func errOpNotDefined(pos Pos, lhs, rhs Type) *TypeError {
	return newTypeError(OpNotDefined, pos, "operation not defined for %s and %s", lhs, rhs)
}

func errIncompatible(pos Pos, given, expected Type) *TypeError {
	return newTypeError(Incompatible, pos, "incompatible types, cannot convert %s to %s", given, expected)
}

func errNotAFunction(pos Pos, name string) *TypeError {
	return newTypeError(NotAFunction, pos, "%s is not a function", name)
}

func errInvalidArgCount(pos Pos, fn string, got, want int) *TypeError {
	return newTypeError(InvalidArgCount, pos, "invalid parameter count in call to function %s, expected %d, received %d", fn, want, got)
}

func errInvalidArgType(pos Pos, fn string, index int, got, want Type) *TypeError {
	return newTypeError(InvalidArgType, pos, "invalid argument type in call to function %s, parameter %d cannot be converted from %s to %s", fn, index, got, want)
}

func errInvalidMainType(pos Pos) *TypeError {
	return newTypeError(InvalidMainType, pos, "invalid type of the main function")
}

func errMissingMain() *TypeError {
	return newTypeError(MissingMain, Pos{}, "main function is missing")
}

func errVoidReturnValue(pos Pos) *TypeError {
	return newTypeError(VoidReturnValue, pos, "void function cannot return a value")
}

func errVoidArgument(pos Pos) *TypeError {
	return newTypeError(VoidArgument, pos, "arguments cannot be of type void")
}

func errVoidDeclaration(pos Pos) *TypeError {
	return newTypeError(VoidDeclaration, pos, "cannot declare a variable of type void")
}

// ReturnError is returned by the return analyzer.
type ReturnError struct {
	Function string
}

func (e *ReturnError) Error() string {
	return fmt.Sprintf("not all execution paths return a value in function %s", e.Function)
}
