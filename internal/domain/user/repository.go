package user

import (
	"context"
)

// Repository finders return (nil, nil) when nothing matches.
type Repository interface {
	Save(ctx context.Context, u *User) (*User, error)
	FindByID(ctx context.Context, id ID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	FindAll(ctx context.Context, skip, limit int) (Users, error)
	Delete(ctx context.Context, id ID) (bool, error)
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
}
