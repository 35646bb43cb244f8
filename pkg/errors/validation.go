package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxValueBytes is the largest payload accepted at the service boundary.
// It matches the byte-mode capacity of a version 40 code at level L.
const MaxValueBytes = 2953

// ValidateValue validates a value before it is handed to a frame provider.
//
// The validation rules are intentionally conservative:
//   - No empty values
//   - Valid UTF-8 only
//   - No NUL bytes
//   - At most MaxValueBytes bytes
//
// Provider-specific capacity limits (which depend on the level) are still
// enforced by the provider itself.
func ValidateValue(value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "value cannot be empty")
	}
	if len(value) > MaxValueBytes {
		return New(ErrCodeInvalidInput, "value too long (max %d bytes)", MaxValueBytes)
	}
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidInput, "value is not valid UTF-8")
	}
	if strings.ContainsRune(value, 0) {
		return New(ErrCodeInvalidInput, "value contains a NUL byte")
	}
	return nil
}

// ValidateGlyph checks that s is exactly one printable character.
// An empty glyph is accepted and means "use the default".
func ValidateGlyph(name, s string) error {
	if s == "" {
		return nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return New(ErrCodeInvalidInput, "%s glyph must be a single character: %q", name, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsControl(r) {
		return New(ErrCodeInvalidInput, "%s glyph is not printable: %q", name, s)
	}
	return nil
}

// ValidateDimension checks that a pixel dimension is positive.
// Zero is accepted and means "use the default".
func ValidateDimension(name string, v float64) error {
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative: %g", name, v)
	}
	return nil
}

// ValidateAlpha checks that an opacity lies in [0, 1].
func ValidateAlpha(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 1 {
		return New(ErrCodeInvalidInput, "%s must be between 0 and 1: %g", name, *v)
	}
	return nil
}
