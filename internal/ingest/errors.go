package ingest

import (
	"errors"
	"fmt"
)

// SchemaError reports a column that does not exist in the parsed source.
type SchemaError struct {
	Position int    // requested source position; -1 when looked up by name
	Columns  int    // number of columns present
	Column   string // requested canonical name, if any
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema: column %q not found", e.Column)
	}
	return fmt.Sprintf("schema: column index %d out of range (file has %d columns)", e.Position, e.Columns)
}

// EmptyInputError reports a table or column without usable values.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string {
	return "no valid data: " + e.Reason
}

// DecodeDegraded describes an encoding fallback. It is never returned from the
// public operations; the projector records it in the table metadata instead.
type DecodeDegraded struct {
	Encoding string
}

func (e *DecodeDegraded) Error() string {
	return "decode degraded: content read as " + e.Encoding
}

// IsSchemaError reports whether err wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsEmptyInput reports whether err wraps an *EmptyInputError.
func IsEmptyInput(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}
