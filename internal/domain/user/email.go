package user

import (
	"fmt"
	"regexp"
	"strings"
)

const maxEmailLen = 255

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a normalized (trimmed, lowercased) email address.
type Email struct {
	value string
}

func ParseEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, fmt.Errorf("email: %w", ErrEmptyValue)
	}
	if len(normalized) > maxEmailLen {
		return Email{}, fmt.Errorf("email longer than %d characters: %w", maxEmailLen, ErrInvalidFormat)
	}
	if !emailRe.MatchString(normalized) {
		return Email{}, fmt.Errorf("email %q: %w", normalized, ErrInvalidFormat)
	}

	return Email{value: normalized}, nil
}

func (e Email) String() string { return e.value }
func (e Email) IsZero() bool   { return e.value == "" }
