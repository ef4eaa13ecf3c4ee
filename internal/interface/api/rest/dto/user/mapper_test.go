package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registry-api/internal/domain/user"
)

func TestToListResponse(t *testing.T) {
	e, err := user.ParseEmail("Jane@Example.com")
	require.NoError(t, err)
	u, err := user.New(e, "Jane", "Roe")
	require.NoError(t, err)
	u.Deactivate()

	lr := ToListResponse(user.Users{u}, 20, 10)
	require.Len(t, lr.Users, 1)
	assert.Equal(t, 1, lr.Total)
	assert.Equal(t, 20, lr.Skip)
	assert.Equal(t, 10, lr.Limit)

	r := lr.Users[0]
	assert.Equal(t, u.ID().String(), r.ID)
	assert.Equal(t, "jane@example.com", r.Email)
	assert.Equal(t, "Jane Roe", r.FullName)
	assert.False(t, r.IsActive)
	require.NotNil(t, r.UpdatedAt)
	assert.False(t, r.UpdatedAt.Before(r.CreatedAt))
}

func TestToResponses_Empty(t *testing.T) {
	rs := ToResponses(nil)
	assert.NotNil(t, rs)
	assert.Empty(t, rs)
}
