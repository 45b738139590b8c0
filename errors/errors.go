// Package errors wraps github.com/cockroachdb/errors so every error built in
// this module carries a stack trace. Format with "%+v" to print it.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New   = crdb.New
	Newf  = crdb.Newf
	Wrap  = crdb.Wrap
	Wrapf = crdb.Wrapf
	Mark  = crdb.Mark
	Is    = crdb.Is
	As    = crdb.As
)

// Recovered turns a value obtained from recover() into an error with a
// stack trace. Errors are wrapped, anything else is formatted.
func Recovered(r interface{}) error {
	if err, ok := r.(error); ok {
		return Wrap(err, "panic")
	}
	return Newf("panic: %v", r)
}
