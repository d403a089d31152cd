package errors

import (
	"strings"
	"unicode"
)

// ValidateElementID validates an element identifier supplied by a caller.
// Element IDs end up as SVG/JSON labels and cache-key components, so the
// rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateElementID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidElements, "element id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidElements, "element id too long (max 256 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidElements, "element id contains control characters: %q", id)
		}
	}

	return nil
}

// ValidateElementIDs validates a full element list, rejecting duplicates in
// addition to the per-ID rules. Duplicate IDs would silently collapse to a
// single packed position.
func ValidateElementIDs(ids []string) error {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if err := ValidateElementID(id); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			return New(ErrCodeInvalidElements, "duplicate element id: %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateDiagramID validates a stored diagram identifier. IDs are generated
// as UUIDs but arrive back over the API as path segments, so they must be
// simple tokens without path separators.
func ValidateDiagramID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "diagram id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "diagram id too long (max 128 characters)")
	}
	if strings.ContainsAny(id, "/\\ \t\n") {
		return New(ErrCodeInvalidInput, "diagram id contains invalid characters: %q", id)
	}
	return nil
}
