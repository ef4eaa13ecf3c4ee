package user

import (
	"context"
	"fmt"
	"strings"
)

type (
	// DeletionRule vetoes deleting an existing user by returning false.
	DeletionRule func(ctx context.Context, u *User) (bool, error)

	ServiceOption func(*Service)

	// Service holds the cross-record rules: email uniqueness and deletability.
	// It keeps no state besides the repository, so one instance serves all requests.
	// The uniqueness check is best effort; the store's unique index has the final word.
	Service struct {
		repo          Repository
		deletionRules []DeletionRule
	}
)

func WithDeletionRule(rule DeletionRule) ServiceOption {
	return func(s *Service) { s.deletionRules = append(s.deletionRules, rule) }
}

func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IsEmailUnique reports whether no other user holds email. A zero excludeID
// means nobody is excluded; otherwise the holder may be the excluded user itself.
func (s *Service) IsEmailUnique(ctx context.Context, email Email, excludeID ID) (bool, error) {
	if excludeID.IsZero() {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return false, err
		}
		return !exists, nil
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return true, nil
	}

	return existing.ID().Equal(excludeID), nil
}

// CanBeDeleted is false for unknown ids; existing users go through the deletion rules.
func (s *Service) CanBeDeleted(ctx context.Context, id ID) (bool, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, nil
	}

	return s.passesDeletionRules(ctx, u)
}

// passesDeletionRules is true when no rule is registered.
func (s *Service) passesDeletionRules(ctx context.Context, u *User) (bool, error) {
	for _, rule := range s.deletionRules {
		ok, err := rule(ctx, u)
		if err != nil {
			return false, fmt.Errorf("deletion rule: %w", err)
		}
		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func (s *Service) ValidateCreation(ctx context.Context, email Email, firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return ErrMissingName
	}

	unique, err := s.IsEmailUnique(ctx, email, ID{})
	if err != nil {
		return err
	}
	if !unique {
		return ErrDuplicateEmail
	}

	return nil
}
