package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedSchema indicates a schema shape that cannot be represented.
var ErrUnsupportedSchema = errors.New("unsupported schema")

// PathError records the property path at which analysis failed.
type PathError struct {
	Err  error
	Path []string
}

func (e *PathError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("<root>: %v", e.Err)
	}

	return fmt.Sprintf("%s: %v", strings.Join(e.Path, "."), e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func unsupported(path []string, format string, args ...any) error {
	return &PathError{
		Path: path,
		Err:  fmt.Errorf("%w: %s", ErrUnsupportedSchema, fmt.Sprintf(format, args...)),
	}
}
