package versions

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a MAJOR.MINOR.PATCH release version.
type Version struct {
	v *semver.Version
}

// NewVersion builds a version from its components.
func NewVersion(major, minor, patch uint64) Version {
	return Version{v: semver.New(major, minor, patch, "", "")}
}

// ParseVersion parses a strict "MAJOR.MINOR.PATCH" string.
func ParseVersion(value string) (Version, error) {
	v, err := semver.StrictNewVersion(value)
	if err != nil {
		return Version{}, fmt.Errorf("parse version %q: %w", value, err)
	}
	if v.Prerelease() != "" || v.Metadata() != "" {
		return Version{}, fmt.Errorf("parse version %q: pre-release and build metadata are not used for plugins", value)
	}
	return Version{v: v}, nil
}

// IsZero reports whether v was never set.
func (v Version) IsZero() bool {
	return v.v == nil
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// Compare returns -1, 0 or 1 depending on whether v is lower than, equal to or
// higher than other. Unset versions sort first.
func (v Version) Compare(other Version) int {
	switch {
	case v.v == nil && other.v == nil:
		return 0
	case v.v == nil:
		return -1
	case other.v == nil:
		return 1
	}
	return v.v.Compare(other.v)
}
