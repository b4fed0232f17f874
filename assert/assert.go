package assert

import "github.com/oomph-ac/motion/oerror"

// IsTrue panics when ok is false. It guards programmer invariants (solver
// internals, registration-time checks), never user input, which reports
// through the oerror taxonomy instead.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(oerror.KindDegenerate, "assert", message, args...))
	}
}
