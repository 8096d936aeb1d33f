package errors

import (
	stderrors "errors"
	"fmt"
)

// MissingColumnError reports a required column that is absent from an input
// table. It is fatal for the pipeline step that raised it: the step cannot
// proceed without the field, so there is nothing to degrade to.
type MissingColumnError struct {
	Table  string
	Column string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %q: required column %q is missing", e.Table, e.Column)
}

// NewMissingColumnError creates a missing column error for the given table and column
func NewMissingColumnError(table, column string) *MissingColumnError {
	return &MissingColumnError{Table: table, Column: column}
}

// IsMissingColumn reports whether err is (or wraps) a MissingColumnError
func IsMissingColumn(err error) bool {
	var target *MissingColumnError
	return stderrors.As(err, &target)
}
