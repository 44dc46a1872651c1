package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-javaman/my-practices/internal/repository"
)

func TestUserServiceDelegates(t *testing.T) {
	f := newAuthFixture(t)
	res := f.register(t, "grace@example.com", "cobol")
	svc := NewUserService(f.users)

	u, err := svc.GetByID(t.Context(), res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", u.Email)

	_, err = svc.GetByID(t.Context(), 404)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	page, err := svc.ListPaged(t.Context(), repository.UserListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}
