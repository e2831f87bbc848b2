package autoversion

import (
	"fmt"
	"strings"
)

// IncrementClass selects which version component a bump increments.
type IncrementClass int

const (
	Patch IncrementClass = iota
	Minor
	Major
)

// Commit message markers, matched case-insensitively anywhere in the message.
const (
	MajorMarker = "[major]"
	MinorMarker = "[minor]"
	PatchMarker = "[patch]"
)

// loopGuardPhrases identify commits produced by the tool itself.
var loopGuardPhrases = []string{
	"auto-increment version",
	"chore: auto-increment",
}

func (c IncrementClass) String() string {
	switch c {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return fmt.Sprintf("IncrementClass(%d)", int(c))
	}
}

// ParseIncrementClass converts "major", "minor" or "patch" (any case) into an IncrementClass.
func ParseIncrementClass(s string) (IncrementClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}
}

// Classify picks the increment class requested by a commit message.
// Markers are checked in priority order, so "[major]" beats "[minor]" beats
// "[patch]" regardless of where they appear. Messages without a marker are patches.
func Classify(message string) IncrementClass {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, MajorMarker):
		return Major
	case strings.Contains(lower, MinorMarker):
		return Minor
	default:
		return Patch
	}
}

// hasMarker reports whether the lower-cased message carries any increment marker.
func hasMarker(lower string) bool {
	return strings.Contains(lower, MajorMarker) ||
		strings.Contains(lower, MinorMarker) ||
		strings.Contains(lower, PatchMarker)
}

// ShouldSkip reports whether message looks like one of our own version commits.
// An explicit marker on such a commit overrides the guard.
func ShouldSkip(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range loopGuardPhrases {
		if strings.Contains(lower, phrase) {
			return !hasMarker(lower)
		}
	}
	return false
}
