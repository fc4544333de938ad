// Package errors defines the pipeline error types shared across stages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the common failure classes of the pipeline.
var (
	// ErrDataLoad indicates the input file could not be read or parsed at all.
	ErrDataLoad = errors.New("data load failed")
	// ErrChartRender indicates a single chart failed to render. Non-fatal.
	ErrChartRender = errors.New("chart render failed")
)

// StageError wraps an error with the pipeline stage it originated from.
type StageError struct {
	Stage string
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the originating stage name
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// IsDataLoad reports whether err is a data load failure
func IsDataLoad(err error) bool {
	return errors.Is(err, ErrDataLoad)
}
