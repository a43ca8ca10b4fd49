package schema

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every structural validation failure.
var ErrValidation = errors.New("schema validation failed")

// FieldError reports a missing or wrongly typed field. Path locates the field
// inside the document, e.g. "tables[0].columns[1].name".
type FieldError struct {
	Path     string
	Expected string
	Got      string
	Missing  bool
}

func (e *FieldError) Error() string {
	if e.Missing {
		return fmt.Sprintf("%s: field required (expected %s)", e.Path, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}

func missing(path, expected string) *FieldError {
	return &FieldError{Path: path, Expected: expected, Missing: true}
}

func mistyped(path, expected string, got any) *FieldError {
	return &FieldError{Path: path, Expected: expected, Got: kindOf(got)}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
