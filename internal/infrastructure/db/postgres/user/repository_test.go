package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "user-registry-api/internal/domain/user"
)

var columns = []string{"id", "email", "first_name", "last_name", "is_active", "created_at", "updated_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, domain.Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock, NewRepository(mock)
}

func mustEmail(t *testing.T, raw string) domain.Email {
	t.Helper()
	e, err := domain.ParseEmail(raw)
	require.NoError(t, err)
	return e
}

func TestRepository_FindByID(t *testing.T) {
	id := domain.NewID()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)

	t.Run("found", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1::uuid")).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(id.String(), "john@example.com", "John", "Doe", true, created, &updated))

		u, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, id, u.ID())
		assert.Equal(t, "john@example.com", u.Email().String())
		assert.Equal(t, "John Doe", u.FullName())
		assert.True(t, u.IsActive())
		assert.Equal(t, created, u.CreatedAt())
		require.NotNil(t, u.UpdatedAt())
		assert.Equal(t, updated, *u.UpdatedAt())
	})

	t.Run("not found", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1::uuid")).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows(columns))

		u, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("db error", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1::uuid")).
			WithArgs(id.String()).
			WillReturnError(errors.New("conn reset"))

		u, err := repo.FindByID(context.Background(), id)
		assert.EqualError(t, err, "conn reset")
		assert.Nil(t, u)
	})
}

func TestRepository_FindByEmail(t *testing.T) {
	mock, repo := newMock(t)
	id := domain.NewID()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1")).
		WithArgs("john@example.com").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(id.String(), "john@example.com", "John", "Doe", false, time.Now(), (*time.Time)(nil)))

	u, err := repo.FindByEmail(context.Background(), mustEmail(t, "John@Example.com"))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.IsActive())
	assert.Nil(t, u.UpdatedAt())
}

func TestRepository_FindAll(t *testing.T) {
	mock, repo := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(10, 5).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(domain.NewID().String(), "b@example.com", "B", "B", true, now, (*time.Time)(nil)).
			AddRow(domain.NewID().String(), "a@example.com", "A", "A", true, now.Add(-time.Minute), (*time.Time)(nil)))

	us, err := repo.FindAll(context.Background(), 10, 5)
	require.NoError(t, err)
	require.Len(t, us, 2)
	assert.Equal(t, "b@example.com", us[0].Email().String())
	assert.Equal(t, "a@example.com", us[1].Email().String())
}

func TestRepository_FindAll_CorruptRow(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WithArgs(0, 100).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("not-a-uuid", "a@example.com", "A", "A", true, time.Now(), (*time.Time)(nil)))

	us, err := repo.FindAll(context.Background(), 0, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Nil(t, us)
}

func TestRepository_Save(t *testing.T) {
	u, err := domain.New(mustEmail(t, "new@example.com"), "New", "User")
	require.NoError(t, err)

	t.Run("upsert", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
			WithArgs(u.ID().String(), "new@example.com", "New", "User", true, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(u.ID().String(), "new@example.com", "New", "User", true, u.CreatedAt(), (*time.Time)(nil)))

		saved, err := repo.Save(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, u.ID(), saved.ID())
		assert.Equal(t, "New User", saved.FullName())
	})

	t.Run("unique violation", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
			WithArgs(u.ID().String(), "new@example.com", "New", "User", true, pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		saved, err := repo.Save(context.Background(), u)
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
		assert.Nil(t, saved)
	})
}

func TestRepository_Delete(t *testing.T) {
	id := domain.NewID()
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"row removed", 1, true},
		{"nothing removed", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMock(t)
			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
				WithArgs(id.String()).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			ok, err := repo.Delete(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRepository_ExistsByEmail(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("a@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByEmail(context.Background(), mustEmail(t, "a@example.com"))
	require.NoError(t, err)
	assert.True(t, ok)
}
