package parse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseable is wrapped by every error produced while building logic
// trees from raw data
var ErrUnparseable = errors.New("unparseable articulation data")

// ParseError locates one piece of input that could not be interpreted.
// The corresponding node is replaced by model.Unparseable.
type ParseError struct {
	Path    string // e.g. groups[0].sections[1].uc_courses[2].logic_block
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return ErrUnparseable
}

// ValidationError lists JSON schema violations in an agreement document
type ValidationError struct {
	Errors []FieldError
}

// FieldError is one schema violation at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ParseErrors extracts every ParseError from an error tree built with
// errors.Join
func ParseErrors(err error) []*ParseError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ParseError
		for _, e := range joined.Unwrap() {
			out = append(out, ParseErrors(e)...)
		}
		return out
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return []*ParseError{pe}
	}
	return nil
}
