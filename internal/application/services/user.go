package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"user-registry-api/internal/application/ports"
	domain "user-registry-api/internal/domain/user"
	"user-registry-api/internal/infrastructure/mq"
	"user-registry-api/internal/interface/api/rest/dto/user"
)

type UserService struct {
	userRepository domain.Repository
	domainService  *domain.Service
	mq             ports.RabbitMQ
	mCounter       *prometheus.CounterVec
}

// NewUserService wires the use cases; mq may be nil when messaging is disabled.
func NewUserService(
	userRepository domain.Repository,
	domainService *domain.Service,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		domainService:  domainService,
		mq:             mq,
		mCounter:       mCounter,
	}
}

func (us *UserService) CreateUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	e, err := domain.ParseEmail(email)
	if err != nil {
		return nil, err
	}
	if err = us.domainService.ValidateCreation(ctx, e, firstName, lastName); err != nil {
		return nil, err
	}

	u, err := domain.New(e, firstName, lastName)
	if err != nil {
		return nil, err
	}
	uRet, err := us.userRepository.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	us.emit(ctx, mq.UserCreated, user.ToResponse(uRet))
	us.mCounter.WithLabelValues("user_created_total").Inc()

	return uRet, nil
}

func (us *UserService) FindUserByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	return us.userRepository.FindByID(ctx, id)
}

func (us *UserService) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	e, err := domain.ParseEmail(email)
	if err != nil {
		return nil, err
	}

	return us.userRepository.FindByEmail(ctx, e)
}

func (us *UserService) FindUsers(ctx context.Context, skip, limit int) (domain.Users, error) {
	return us.userRepository.FindAll(ctx, skip, limit)
}

func (us *UserService) UpdateUser(ctx context.Context, id domain.ID, patch ports.UserPatch) (*domain.User, error) {
	u, err := us.userRepository.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	if patch.FirstName != nil || patch.LastName != nil {
		first := orCurrent(patch.FirstName, u.FirstName())
		last := orCurrent(patch.LastName, u.LastName())
		if err = u.UpdateName(first, last); err != nil {
			return nil, err
		}
	}

	if patch.Email != nil {
		e, err := domain.ParseEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		unique, err := us.domainService.IsEmailUnique(ctx, e, u.ID())
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, domain.ErrDuplicateEmail
		}
		u.UpdateEmail(e)
	}

	uRet, err := us.userRepository.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	us.emit(ctx, mq.UserUpdated, user.ToResponse(uRet))
	us.mCounter.WithLabelValues("user_updated_total").Inc()

	return uRet, nil
}

func (us *UserService) DeleteUser(ctx context.Context, id domain.ID) (bool, error) {
	ok, err := us.domainService.CanBeDeleted(ctx, id)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrNotDeletable, id)
	}

	deleted, err := us.userRepository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		us.emit(ctx, mq.UserDeleted, user.Response{ID: id.String()})
		us.mCounter.WithLabelValues("user_deleted_total").Inc()
	}

	return deleted, nil
}

func (us *UserService) ActivateUser(ctx context.Context, id domain.ID) (*domain.User, error) {
	return us.toggle(ctx, id, true)
}

func (us *UserService) DeactivateUser(ctx context.Context, id domain.ID) (*domain.User, error) {
	return us.toggle(ctx, id, false)
}

func (us *UserService) toggle(ctx context.Context, id domain.ID, active bool) (*domain.User, error) {
	u, err := us.userRepository.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}

	action, label := mq.UserDeactivated, "user_deactivated_total"
	if active {
		u.Activate()
		action, label = mq.UserActivated, "user_activated_total"
	} else {
		u.Deactivate()
	}

	uRet, err := us.userRepository.Save(ctx, u)
	if err != nil {
		return nil, err
	}

	us.emit(ctx, action, user.ToResponse(uRet))
	us.mCounter.WithLabelValues(label).Inc()

	return uRet, nil
}

// emit hands the event to the publisher worker; it gives up when the request ends first.
func (us *UserService) emit(ctx context.Context, action string, payload user.Response) {
	if us.mq == nil {
		return
	}

	select {
	case us.mq.GetInputChan() <- mq.NewEvent(action, payload):
	case <-ctx.Done():
	}
}

func orCurrent(v *string, current string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return current
	}
	return *v
}
