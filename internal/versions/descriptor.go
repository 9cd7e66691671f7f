package versions

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const defineDirective = "#define"

// Descriptor holds the "#define KEY VALUE" declarations of a version header.
// Keys are case-sensitive. A repeated key keeps its first value, matching how
// a line-anchored search over the header would behave.
type Descriptor struct {
	values map[string]string
}

// ParseDescriptor reads define declarations that start at the beginning of a
// line. Indented or commented-out defines are ignored, and so are defines
// without a value.
func ParseDescriptor(r io.Reader) (Descriptor, error) {
	desc := Descriptor{values: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, defineDirective) {
			continue
		}
		rest := line[len(defineDirective):]
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			continue
		}
		if _, seen := desc.values[fields[0]]; seen {
			continue
		}
		desc.values[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return Descriptor{}, fmt.Errorf("read version descriptor: %w", err)
	}
	return desc, nil
}

// Lookup returns the raw value declared for key.
func (d Descriptor) Lookup(key string) (string, bool) {
	value, ok := d.values[key]
	return value, ok
}

// Int returns the non-negative integer declared for key.
func (d Descriptor) Int(key string) (uint64, error) {
	raw, ok := d.values[key]
	if !ok {
		return 0, &MissingFieldError{Field: key}
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &MalformedFieldError{Field: key, Value: raw}
	}
	return value, nil
}

// Keys names the markers holding each version component.
type Keys struct {
	Major string
	Minor string
	Patch string
}

// Version extracts the three version components.
func (d Descriptor) Version(keys Keys) (Version, error) {
	major, err := d.Int(keys.Major)
	if err != nil {
		return Version{}, err
	}
	minor, err := d.Int(keys.Minor)
	if err != nil {
		return Version{}, err
	}
	patch, err := d.Int(keys.Patch)
	if err != nil {
		return Version{}, err
	}
	return NewVersion(major, minor, patch), nil
}
