package auth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tendant/simple-blog/pkg/domain"
)

// SanitizeBody trims a user-submitted text body and strips control characters.
// Empty results yield domain.ErrEmptyBody. maxLen counts characters; zero
// disables the limit.
func SanitizeBody(body string, maxLen int) (string, error) {
	cleaned := strings.TrimSpace(removeControlChars(body))
	if cleaned == "" {
		return "", domain.ErrEmptyBody
	}
	if err := ValidateStringLength("body", cleaned, 0, maxLen); err != nil {
		return "", err
	}
	return cleaned, nil
}

// ValidateStringLength validates that a string is within the specified length constraints.
func ValidateStringLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(value)

	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters long", field, min)
	}

	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters long", field, max)
	}

	return nil
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep newline, carriage return, and tab
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
