package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderNotFound is returned when a statement has no Data/Operazione/Dettagli header row
	ErrHeaderNotFound = errors.New("statement header row not found")

	// ErrUnsupportedSource is returned for an unknown source type
	ErrUnsupportedSource = errors.New("unsupported source type")

	// ErrColumnNotFound is returned when a named column is missing from the header
	ErrColumnNotFound = errors.New("column not found")
)

// ParseError reports a cell that could not be parsed. Row is 1-based and
// counts the header row.
type ParseError struct {
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
