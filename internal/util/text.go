package util

import "strings"

func StringPtr(v string) *string { return &v }

func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// FirstNonNil returns the first non-nil value, or nil when every value is
// nil. Used for the "prefer the first non-blank column" reads in the
// scanner.
func FirstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// StripSpaces removes ASCII and full-width (U+3000) spaces. Approval
// cells mix both because names are hand-aligned in the sheet.
func StripSpaces(input string) string {
	out := strings.ReplaceAll(input, " ", "")
	return strings.ReplaceAll(out, "　", "")
}

// StripAllWhitespace removes every whitespace rune, not just spaces.
func StripAllWhitespace(input string) string {
	return strings.Join(strings.Fields(input), "")
}
