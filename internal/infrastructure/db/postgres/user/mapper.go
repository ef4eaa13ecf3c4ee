package user

import (
	"fmt"
	"time"

	domain "user-registry-api/internal/domain/user"
)

func fromDBModel(model *User) (*domain.User, error) {
	id, err := domain.ParseID(model.ID)
	if err != nil {
		return nil, fmt.Errorf("stored user: %w", err)
	}
	email, err := domain.ParseEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("stored user %s: %w", model.ID, err)
	}

	return domain.Restore(
		id,
		email,
		model.FirstName,
		model.LastName,
		model.IsActive,
		model.CreatedAt.UTC(),
		utcPtr(model.UpdatedAt),
	), nil
}

func fromDBModels(models Users) (domain.Users, error) {
	us := make(domain.Users, len(models))
	for idx, m := range models {
		u, err := fromDBModel(m)
		if err != nil {
			return nil, err
		}
		us[idx] = u
	}

	return us, nil
}

func toDBModel(u *domain.User) *User {
	return &User{
		ID:        u.ID().Key(),
		Email:     u.Email().String(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
