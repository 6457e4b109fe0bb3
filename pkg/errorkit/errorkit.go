// Package errorkit provides the error values and helpers used across brewing.
package errorkit

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an error implementation that makes it possible to declare constant error values.
//
//	const ErrSomething errorkit.Error = "something went wrong"
type Error string

func (err Error) Error() string { return string(err) }

// Wrap bundles another error value together with this Error.
// The returned error matches both values for errors.Is and errors.As.
func (err Error) Wrap(oth error) error {
	if oth == nil {
		return err
	}
	return wrapper{Owner: err, Wrapped: oth}
}

// F formats an error value that is owned by this Error constant.
func (err Error) F(format string, a ...any) error { return err.Wrap(fmt.Errorf(format, a...)) }

type wrapper struct {
	Owner   Error
	Wrapped error // must be not nil
}

func (w wrapper) Error() string {
	return fmt.Sprintf("[%s] %s", w.Owner, w.Wrapped.Error())
}

func (w wrapper) As(target any) bool {
	return errors.As(w.Owner, target) || errors.As(w.Wrapped, target)
}

func (w wrapper) Is(target error) bool {
	return errors.Is(w.Owner, target) || errors.Is(w.Wrapped, target)
}

// Merge combines all given non nil error values into a single error value.
// If no valid error is given, nil is returned.
// If only a single non nil error value is given, that error value is returned.
func Merge(errs ...error) error {
	var valid []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		valid = append(valid, err)
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return multiError(valid)
	}
}

type multiError []error

func (errs multiError) Error() string {
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

func (errs multiError) As(target any) bool {
	for _, err := range errs {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

func (errs multiError) Is(target error) bool {
	for _, err := range errs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Finish is a helper meant to be used from a deferred context to merge in the error of a closing operation.
//
//	defer errorkit.Finish(&returnError, rows.Close)
func Finish(returnErr *error, blk func() error) {
	*returnErr = Merge(*returnErr, blk())
}

// Recover attempts a recover, and if recovery yields a value, it sets it as an error.
func Recover(returnErr *error) {
	r := recover()
	if r == nil {
		return
	}
	switch r := r.(type) {
	case error:
		*returnErr = r
	default:
		*returnErr = fmt.Errorf("%v", r)
	}
}

// As is a shorthand to enable one-liner error handling with errors.As,
// meant to be used within an if statement like a Lookup function.
func As[T error](err error) (T, bool) {
	var v T
	ok := errors.As(err, &v)
	return v, ok
}
