package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds catalog names and selection values.
const maxNameLength = 128

// ValidateName validates a catalog name (category, vertical, channel, stage).
// Names appear in node IDs, file names and URLs, so the rules are conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - No leading or trailing whitespace
//   - Maximum length of 128 characters
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "%s name cannot be empty", kind)
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "%s name too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "%s name contains invalid control characters", kind)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidName, "%s name %q has surrounding whitespace", kind, name)
	}

	return nil
}

// ValidatePlanID validates a plan state identifier for safe use as a file
// name and store key. IDs are UUIDs in practice; anything with path
// separators or traversal sequences is rejected.
func ValidatePlanID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "plan id cannot be empty")
	}

	if len(id) > maxNameLength {
		return New(ErrCodeInvalidInput, "plan id too long (max %d characters)", maxNameLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "plan id contains invalid characters")
		}
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "plan id cannot contain path components")
	}

	return nil
}
