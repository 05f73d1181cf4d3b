package model

import "github.com/pkg/errors"

// Error kinds reported by grid operations. Use errors.Is to classify.
var (
	ErrAllocation = errors.New("allocation failure")
	ErrIO         = errors.New("io failure")
	ErrFormat     = errors.New("format error")
)

// ioFailure tags an underlying I/O error as ErrIO while keeping it unwrappable.
type ioFailure struct {
	err error
}

func (e *ioFailure) Error() string { return e.err.Error() }

func (e *ioFailure) Unwrap() error { return e.err }

func (e *ioFailure) Is(target error) bool { return target == ErrIO }

func wrapIO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(&ioFailure{err: err}, format, args...)
}
