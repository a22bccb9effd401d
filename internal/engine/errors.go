package engine

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable marks every failure to produce the dataset.
var ErrDataUnavailable = errors.New("data unavailable")

// DataUnavailableError says why the dataset could not be read.
type DataUnavailableError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("data unavailable: %s", e.Path)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool {
	return target == ErrDataUnavailable
}

func unavailable(path, reason string, err error) error {
	return &DataUnavailableError{Path: path, Reason: reason, Err: err}
}
