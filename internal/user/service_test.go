package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

type fakeBackend struct {
	users      []client.User
	queries    []string
	pageAsked  int
	sizeAsked  int
	total      int
	updatedID  int64
	updateBody client.AdminUserRequest
}

func (f *fakeBackend) SearchUsers(_ context.Context, query string) ([]client.User, error) {
	f.queries = append(f.queries, query)
	return f.users, nil
}

func (f *fakeBackend) Profile(context.Context) (*client.User, error) {
	return &f.users[0], nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, req client.ProfileRequest) (*client.User, error) {
	u := f.users[0]
	u.FullName = req.FullName
	return &u, nil
}

func (f *fakeBackend) AdminUsers(_ context.Context, page, size int) (*client.Page[client.User], error) {
	f.pageAsked, f.sizeAsked = page, size
	return &client.Page[client.User]{Content: f.users, TotalElements: f.total, Number: page, Size: size}, nil
}

func (f *fakeBackend) AdminUpdateUser(_ context.Context, id int64, req client.AdminUserRequest) (*client.User, error) {
	f.updatedID, f.updateBody = id, req
	return &client.User{ID: id, FullName: req.FullName}, nil
}

func TestSearchUsers(t *testing.T) {
	api := &fakeBackend{users: []client.User{
		{ID: 1, FullName: "Me", IsActive: true},
		{ID: 2, FullName: "Nguyễn An", IsActive: true},
		{ID: 3, FullName: "Disabled", IsActive: false},
	}}
	s := NewService(logger.Nop())

	got, err := s.SearchUsers(context.Background(), api, "a", 1)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, api.queries)

	got, err = s.SearchUsers(context.Background(), api, "  an ", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, []string{"an"}, api.queries)
}

func TestAdminUsersConvertsPages(t *testing.T) {
	api := &fakeBackend{users: []client.User{{ID: 6}, {ID: 7}, {ID: 8}}, total: 23}
	s := NewService(logger.Nop())

	page, err := s.AdminUsers(context.Background(), api, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, api.pageAsked)
	assert.Equal(t, 5, api.sizeAsked)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, 23, page.TotalItems)
	assert.Len(t, page.Items, 3)

	_, err = s.AdminUsers(context.Background(), api, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, api.pageAsked)
	assert.Equal(t, 10, api.sizeAsked)
}

func TestAdminUpdateGuardsSelf(t *testing.T) {
	api := &fakeBackend{}
	s := NewService(logger.Nop())
	inactive := false

	_, err := s.AdminUpdate(context.Background(), api, 1, 1, &AdminUpdateRequest{IsActive: &inactive})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = s.AdminUpdate(context.Background(), api, 1, 1, &AdminUpdateRequest{Roles: []string{"USER"}})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	assert.Zero(t, api.updatedID)

	_, err = s.AdminUpdate(context.Background(), api, 1, 1, &AdminUpdateRequest{Roles: []string{"ROLE_USER", "role_admin"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), api.updatedID)

	name := "  Trần Bình "
	user, err := s.AdminUpdate(context.Background(), api, 1, 4, &AdminUpdateRequest{FullName: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(4), api.updatedID)
	assert.Equal(t, "Trần Bình", user.FullName)
	require.NotNil(t, api.updateBody.IsActive)
	assert.False(t, *api.updateBody.IsActive)
}
