package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-registry-api/internal/domain/user"
)

const userKeyPrefix = "users:id:" // users:id:{user_id}

type (
	// UserRepository is a read-through cache for FindByID in front of another
	// repository. Redis failures are logged and the call falls through.
	UserRepository struct {
		next   user.Repository
		client *redis.Client
		ttl    time.Duration
		log    *zap.Logger
	}
	cachedUser struct {
		ID        string     `json:"id"`
		Email     string     `json:"email"`
		FirstName string     `json:"first_name"`
		LastName  string     `json:"last_name"`
		IsActive  bool       `json:"is_active"`
		CreatedAt time.Time  `json:"created_at"`
		UpdatedAt *time.Time `json:"updated_at"`
	}
)

func NewUserRepository(next user.Repository, client *redis.Client, ttl time.Duration, logger *zap.Logger) user.Repository {
	return &UserRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    logger,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	key := userKey(id)

	b, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		u, derr := decode(b)
		if derr == nil {
			return u, nil
		}
		r.log.Warn("cache decode error", zap.String("key", key), zap.Error(derr))
	case !errors.Is(err, redis.Nil):
		r.log.Warn("cache get error", zap.String("key", key), zap.Error(err))
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}

	if b, err = json.Marshal(encode(u)); err == nil {
		if err = r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
			r.log.Warn("cache set error", zap.String("key", key), zap.Error(err))
		}
	}

	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	saved, err := r.next.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	r.evict(ctx, u.ID(), saved.ID())

	return saved, nil
}

func (r *UserRepository) Delete(ctx context.Context, id user.ID) (bool, error) {
	ok, err := r.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.evict(ctx, id)

	return ok, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *UserRepository) FindAll(ctx context.Context, skip, limit int) (user.Users, error) {
	return r.next.FindAll(ctx, skip, limit)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email user.Email) (bool, error) {
	return r.next.ExistsByEmail(ctx, email)
}

func (r *UserRepository) evict(ctx context.Context, ids ...user.ID) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, userKey(id))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log.Warn("cache evict error", zap.Strings("keys", keys), zap.Error(err))
	}
}

func userKey(id user.ID) string { return userKeyPrefix + id.Key() }

func encode(u *user.User) cachedUser {
	return cachedUser{
		ID:        u.ID().String(),
		Email:     u.Email().String(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}

func decode(b []byte) (*user.User, error) {
	var c cachedUser
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	id, err := user.ParseID(c.ID)
	if err != nil {
		return nil, fmt.Errorf("cached user: %w", err)
	}
	email, err := user.ParseEmail(c.Email)
	if err != nil {
		return nil, fmt.Errorf("cached user: %w", err)
	}

	return user.Restore(id, email, c.FirstName, c.LastName, c.IsActive, c.CreatedAt, c.UpdatedAt), nil
}
