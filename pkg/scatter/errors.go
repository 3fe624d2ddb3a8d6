package scatter

import (
	"fmt"

	"github.com/matzehuels/vrplot/pkg/errors"
)

// InvalidInputError reports an input field whose values cannot be laid out.
type InvalidInputError struct {
	Field  string // "x", "y", "z", "dimensions", "sizes", ...
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Code returns errors.ErrCodeInvalidInput.
func (e *InvalidInputError) Code() errors.Code { return errors.ErrCodeInvalidInput }

// ShapeMismatchError reports a per-row sequence whose length differs from
// the number of rows.
type ShapeMismatchError struct {
	Field string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s has %d values, want %d", e.Field, e.Got, e.Want)
}

// Code returns errors.ErrCodeShapeMismatch.
func (e *ShapeMismatchError) Code() errors.Code { return errors.ErrCodeShapeMismatch }

// EmptyInputError reports that the axes have no rows.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string { return "no data points" }

// Code returns errors.ErrCodeEmptyInput.
func (e *EmptyInputError) Code() errors.Code { return errors.ErrCodeEmptyInput }

// PaletteSizeError reports a palette that returned fewer colours than there
// are levels.
type PaletteSizeError struct {
	Want int
	Got  int
}

func (e *PaletteSizeError) Error() string {
	return fmt.Sprintf("palette returned %d colours for %d levels", e.Got, e.Want)
}

// Code returns errors.ErrCodePaletteSize.
func (e *PaletteSizeError) Code() errors.Code { return errors.ErrCodePaletteSize }
