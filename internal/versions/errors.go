package versions

import "fmt"

// MissingFieldError reports a version marker absent from a descriptor.
type MissingFieldError struct {
	Plugin string
	Path   string
	Field  string
}

func (e *MissingFieldError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("version marker %s not found", e.Field)
	}
	return fmt.Sprintf("%s: version marker %s not found in %s", e.Plugin, e.Field, e.Path)
}

// MalformedFieldError reports a version marker whose value is not a
// non-negative integer.
type MalformedFieldError struct {
	Plugin string
	Path   string
	Field  string
	Value  string
}

func (e *MalformedFieldError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("version marker %s has non-integer value %q", e.Field, e.Value)
	}
	return fmt.Sprintf("%s: version marker %s in %s has non-integer value %q", e.Plugin, e.Field, e.Path, e.Value)
}
