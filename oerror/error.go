package oerror

import "fmt"

// Kind classifies a solver failure.
type Kind uint8

const (
	// KindDomain marks a request whose inverse has no real solution, such as a
	// velocity that the decay toward the fixed point can never reach.
	KindDomain Kind = iota
	// KindDegenerate marks parameters that leave the closed forms undefined,
	// such as a drag coefficient of 1 or a decay factor underflowing to zero.
	KindDegenerate
	// KindNonConvergence marks an iterative recovery that exhausted its budget
	// or produced no candidate surviving validation.
	KindNonConvergence
)

// Sentinels for errors.Is matching. Every error produced by New with the
// corresponding kind matches its sentinel.
var (
	ErrDomain         = &Error{kind: KindDomain, msg: "no real solution"}
	ErrDegenerate     = &Error{kind: KindDegenerate, msg: "degenerate parameters"}
	ErrNonConvergence = &Error{kind: KindNonConvergence, msg: "solver did not converge"}
)

// Error is a solver failure local to a single call.
type Error struct {
	kind Kind
	op   string
	msg  string
}

// New creates an Error of the given kind. op names the operation that failed.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{kind: kind, op: op, msg: fmt.Sprintf(format, args...)}
}

// Kind returns the failure classification.
func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Error() string {
	if e.op == "" {
		return e.msg
	}
	return e.op + ": " + e.msg
}

// Is reports whether target is one of the kind sentinels matching this error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}
