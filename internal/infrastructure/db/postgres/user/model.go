package user

import (
	"time"
)

type (
	User struct {
		ID        string
		Email     string
		FirstName string
		LastName  string
		IsActive  bool

		CreatedAt time.Time
		UpdatedAt *time.Time
	}
	Users []*User
)
