package autoversion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrMalformedVersion is returned when a version string is not a plain MAJOR.MINOR.PATCH triple.
	ErrMalformedVersion = errors.New("malformed version")
	// ErrUnknownClass is returned when a bump is requested with an increment class outside Major, Minor and Patch.
	ErrUnknownClass = errors.New("unknown increment class")
	// ErrVersionOverflow is returned when the component to increment is already at its maximum.
	ErrVersionOverflow = errors.New("version component overflow")
)

// Version is a three part semantic version without pre-release or build metadata.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a canonical "MAJOR.MINOR.PATCH" string.
// A leading "v", leading zeros, pre-release or build suffixes and negative
// components are all rejected with ErrMalformedVersion.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q (expected MAJOR.MINOR.PATCH)", ErrMalformedVersion, s)
	}
	// semver.IsValid catches leading zeros, signs and suffixes that Atoi would accept.
	if !semver.IsValid("v" + s) {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("%w: %q has invalid component %q", ErrMalformedVersion, s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the canonical textual form "MAJOR.MINOR.PATCH".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether v is 0.0.0.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to, or after b.
func Compare(a, b Version) int {
	return semver.Compare("v"+a.String(), "v"+b.String())
}

// Less reports whether v sorts strictly before other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// Bump returns the version that follows v for the given increment class.
// Major resets minor and patch, Minor resets patch. Incrementing a component
// that is already math.MaxInt yields ErrVersionOverflow.
func (v Version) Bump(class IncrementClass) (Version, error) {
	var component int
	switch class {
	case Major:
		component = v.Major
	case Minor:
		component = v.Minor
	case Patch:
		component = v.Patch
	}
	if component == math.MaxInt {
		return v, fmt.Errorf("%w: %s bump of %s", ErrVersionOverflow, class, v)
	}

	switch class {
	case Major:
		return Version{Major: v.Major + 1}, nil
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case Patch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return v, fmt.Errorf("%w: %d", ErrUnknownClass, int(class))
	}
}
