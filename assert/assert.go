package assert

import "github.com/oomph-ac/locomotion/oerror"

// IsTrue panics with a formatted error if ok is false. It is meant for setup-time preconditions
// only; nothing on the per-tick path should assert.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
