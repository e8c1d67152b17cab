// Package check holds the error taxonomy shared by every view and the policy
// that decides what a failed checked access does.
//
// Checked operations (Read, Write, CopyFrom, ...) report failures through
// Fail. Under the default Report policy Fail hands the error back to the
// caller. Under the Abort policy Fail panics with the same error, for callers
// that prefer a trap over an error they might forget to check.
//
// Unchecked operations never consult the policy.
package check

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// Policy selects how checked-access failures surface.
type Policy int32

const (
	// Report returns failures as errors.
	Report Policy = iota
	// Abort panics on the first failure.
	Abort
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case Report:
		return "report"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a configuration name to a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "report":
		return Report, nil
	case "abort":
		return Abort, nil
	default:
		return Report, errors.Newf("check: unknown policy %q", name)
	}
}

var current atomic.Int32

// SetPolicy installs p and returns the policy it replaced.
func SetPolicy(p Policy) Policy {
	return Policy(current.Swap(int32(p)))
}

// CurrentPolicy returns the installed policy.
func CurrentPolicy() Policy {
	return Policy(current.Load())
}

var (
	ErrIncomplete      = errors.New("view: element extends past the end of the buffer")
	ErrValueOutOfRange = errors.New("view: value cannot be stored in element")
	ErrReadOnly        = errors.New("view: buffer is read-only")
	ErrSizeMismatch    = errors.New("view: source and destination sizes differ")
	ErrInvalidBuffer   = errors.New("view: buffer handle is not valid")
)

// Fail routes err through the current policy. It returns err under Report
// and panics with it under Abort. A nil err is returned unchanged.
func Fail(err error) error {
	if err == nil {
		return nil
	}
	if CurrentPolicy() == Abort {
		panic(err)
	}
	return err
}

// Failf wraps sentinel with a formatted message and routes it through Fail.
func Failf(sentinel error, format string, args ...interface{}) error {
	return Fail(errors.Wrapf(sentinel, format, args...))
}

// Violation reports a broken contract on an unchecked path. It always panics.
func Violation(format string, args ...interface{}) {
	panic(errors.AssertionFailedf(format, args...))
}
