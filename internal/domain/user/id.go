package user

import (
	"fmt"

	"github.com/google/uuid"
)

// ID keeps the textual form it was parsed from, so ParseID(s).String() == s.
type ID struct {
	value string
}

func NewID() ID { return ID{value: uuid.NewString()} }

func ParseID(raw string) (ID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return ID{}, fmt.Errorf("user id %q: %w", raw, ErrInvalidFormat)
	}

	return ID{value: raw}, nil
}

func (id ID) String() string { return id.value }

// Key is the canonical lowercase hyphenated form. Stores and caches key on it,
// so "ABC..." and "{abc...}" name the same user.
func (id ID) Key() string {
	if id.IsZero() {
		return ""
	}
	u, err := uuid.Parse(id.value)
	if err != nil {
		return id.value
	}
	return u.String()
}

// Equal compares ids by their canonical form.
func (id ID) Equal(other ID) bool { return id.Key() == other.Key() }

// IsZero reports whether id is the "no identifier" value.
func (id ID) IsZero() bool { return id.value == "" }
