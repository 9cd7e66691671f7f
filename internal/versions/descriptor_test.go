package versions

import (
	"errors"
	"strings"
	"testing"
)

var defaultKeys = Keys{Major: "MAJOR_VERSION_INT", Minor: "SUB_VERSION_INT", Patch: "RELEASE_NUMBER_INT"}

func TestDescriptorVersion(t *testing.T) {
	input := `#pragma once

#define MAJOR_VERSION_STR "1"
#define MAJOR_VERSION_INT 1
#define SUB_VERSION_INT 2 // minor
#define RELEASE_NUMBER_INT	3
`
	desc, err := ParseDescriptor(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	version, err := desc.Version(defaultKeys)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version.String() != "1.2.3" {
		t.Fatalf("version = %q, want 1.2.3", version)
	}
}

func TestDescriptorNormalizesLeadingZeros(t *testing.T) {
	input := "#define MAJOR_VERSION_INT 01\n#define SUB_VERSION_INT 002\n#define RELEASE_NUMBER_INT 0\n"
	desc, err := ParseDescriptor(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	version, err := desc.Version(defaultKeys)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version.String() != "1.2.0" {
		t.Fatalf("version = %q, want 1.2.0", version)
	}
}

func TestDescriptorMarkersAreLineAnchoredAndCaseSensitive(t *testing.T) {
	input := `  #define MAJOR_VERSION_INT 9
// #define SUB_VERSION_INT 9
#define major_version_int 9
#define
#define SUB_VERSION_INT
`
	desc, err := ParseDescriptor(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	for _, key := range []string{"MAJOR_VERSION_INT", "SUB_VERSION_INT"} {
		if _, ok := desc.Lookup(key); ok {
			t.Fatalf("expected %s to be ignored", key)
		}
	}
	if value, ok := desc.Lookup("major_version_int"); !ok || value != "9" {
		t.Fatalf("lower-case key lookup = %q, %v", value, ok)
	}
}

func TestDescriptorFirstDeclarationWins(t *testing.T) {
	desc, err := ParseDescriptor(strings.NewReader("#define MAJOR_VERSION_INT 1\n#define MAJOR_VERSION_INT 7\n"))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	if got, _ := desc.Int("MAJOR_VERSION_INT"); got != 1 {
		t.Fatalf("major = %d, want 1", got)
	}
}

func TestDescriptorMissingMarker(t *testing.T) {
	desc, err := ParseDescriptor(strings.NewReader("#define MAJOR_VERSION_INT 1\n#define SUB_VERSION_INT 2\n"))
	if err != nil {
		t.Fatalf("ParseDescriptor: %v", err)
	}
	_, err = desc.Version(defaultKeys)
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "RELEASE_NUMBER_INT" {
		t.Fatalf("missing field = %q", missing.Field)
	}
}

func TestDescriptorMalformedMarker(t *testing.T) {
	for _, value := range []string{"-1", "1u", "x"} {
		desc, err := ParseDescriptor(strings.NewReader("#define MAJOR_VERSION_INT " + value + "\n"))
		if err != nil {
			t.Fatalf("ParseDescriptor: %v", err)
		}
		_, err = desc.Int("MAJOR_VERSION_INT")
		var malformed *MalformedFieldError
		if !errors.As(err, &malformed) {
			t.Fatalf("value %q: expected MalformedFieldError, got %v", value, err)
		}
	}
}
