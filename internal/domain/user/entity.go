package user

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxNameLen = 100

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

type (
	// User is the unit of persistence. Fields are unexported so every change
	// goes through a method that keeps the invariants.
	User struct {
		id        ID
		email     Email
		firstName string
		lastName  string
		active    bool
		createdAt time.Time
		updatedAt *time.Time
	}
	Users []*User
)

// New builds an active user with a fresh id.
func New(email Email, firstName, lastName string) (*User, error) {
	first, last, err := normalizeNames(firstName, lastName)
	if err != nil {
		return nil, err
	}

	return &User{
		id:        NewID(),
		email:     email,
		firstName: first,
		lastName:  last,
		active:    true,
		createdAt: now(),
	}, nil
}

// Restore rebuilds a user loaded from storage.
func Restore(
	id ID,
	email Email,
	firstName, lastName string,
	active bool,
	createdAt time.Time,
	updatedAt *time.Time,
) *User {
	return &User{
		id:        id,
		email:     email,
		firstName: firstName,
		lastName:  lastName,
		active:    active,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() ID               { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) FullName() string     { return u.firstName + " " + u.lastName }
func (u *User) IsActive() bool       { return u.active }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt is nil until the first mutation.
func (u *User) UpdatedAt() *time.Time {
	if u.updatedAt == nil {
		return nil
	}
	t := *u.updatedAt
	return &t
}

func (u *User) Activate() {
	u.active = true
	u.touch()
}

func (u *User) Deactivate() {
	u.active = false
	u.touch()
}

// UpdateName replaces both names or leaves the user untouched on error.
func (u *User) UpdateName(firstName, lastName string) error {
	first, last, err := normalizeNames(firstName, lastName)
	if err != nil {
		return err
	}

	u.firstName = first
	u.lastName = last
	u.touch()

	return nil
}

// UpdateEmail does not check uniqueness, see Service.IsEmailUnique.
func (u *User) UpdateEmail(email Email) {
	u.email = email
	u.touch()
}

func (u *User) String() string {
	return fmt.Sprintf("User(id=%s, email=%s, name=%s)", u.id, u.email, u.FullName())
}

func (u *User) touch() {
	t := now()
	if t.Before(u.createdAt) {
		t = u.createdAt
	}
	u.updatedAt = &t
}

func normalizeNames(firstName, lastName string) (string, string, error) {
	first := norm.NFC.String(strings.TrimSpace(firstName))
	last := norm.NFC.String(strings.TrimSpace(lastName))

	for _, n := range []string{first, last} {
		if l := utf8.RuneCountInString(n); l == 0 || l > maxNameLen {
			return "", "", ErrInvalidName
		}
	}

	return first, last, nil
}
