package ports

import (
	"context"

	"user-registry-api/internal/domain/user"
)

// UserPatch carries the optional fields of an update; nil leaves a field untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

type UserService interface {
	CreateUser(ctx context.Context, email, firstName, lastName string) (*user.User, error)
	FindUserByID(ctx context.Context, id user.ID) (*user.User, error)
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
	FindUsers(ctx context.Context, skip, limit int) (user.Users, error)
	UpdateUser(ctx context.Context, id user.ID, patch UserPatch) (*user.User, error)
	DeleteUser(ctx context.Context, id user.ID) (bool, error)
	ActivateUser(ctx context.Context, id user.ID) (*user.User, error)
	DeactivateUser(ctx context.Context, id user.ID) (*user.User, error)
}
