package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskforge-dev/taskforge/internal/apperr"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
)

type mockProjects struct {
	mock.Mock
}

func (m *mockProjects) Get(ctx context.Context, id uint) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func projectWith(managerID uint, developerIDs ...uint) *models.Project {
	p := &models.Project{ManagerID: managerID}
	p.ID = 42
	for _, id := range developerIDs {
		dev := models.User{}
		dev.ID = id
		p.Developers = append(p.Developers, dev)
	}
	return p
}

func TestAdminAlwaysAllowed(t *testing.T) {
	projects := new(mockProjects)

	ok, err := CanAccessProject(context.Background(), projects, 42, 1, types.RoleAdmin)

	require.NoError(t, err)
	assert.True(t, ok)
	projects.AssertNotCalled(t, "Get")
}

func TestManagerOwnProjectOnly(t *testing.T) {
	projects := new(mockProjects)
	projects.On("Get", mock.Anything, uint(42)).Return(projectWith(7), nil)

	ok, err := CanAccessProject(context.Background(), projects, 42, 7, types.RoleManager)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CanAccessProject(context.Background(), projects, 42, 8, types.RoleManager)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeveloperMembership(t *testing.T) {
	projects := new(mockProjects)
	projects.On("Get", mock.Anything, uint(42)).Return(projectWith(7, 10, 11), nil)

	ok, err := CanAccessProject(context.Background(), projects, 42, 10, types.RoleDeveloper)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CanAccessProject(context.Background(), projects, 42, 12, types.RoleDeveloper)
	require.NoError(t, err)
	assert.False(t, ok)

	// The manager id does not grant developer access.
	ok, err = CanAccessProject(context.Background(), projects, 42, 7, types.RoleDeveloper)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUnknownRoleDenied(t *testing.T) {
	projects := new(mockProjects)
	projects.On("Get", mock.Anything, uint(42)).Return(projectWith(7, 7), nil)

	ok, err := CanAccessProject(context.Background(), projects, 42, 7, types.Role("superuser"))

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMissingProjectDenies(t *testing.T) {
	projects := new(mockProjects)
	projects.On("Get", mock.Anything, uint(99)).Return(nil, apperr.NotFoundf("project %d not found", 99))

	ok, err := CanAccessProject(context.Background(), projects, 99, 7, types.RoleManager)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupErrorPropagates(t *testing.T) {
	projects := new(mockProjects)
	dbErr := errors.New("connection reset")
	projects.On("Get", mock.Anything, uint(42)).Return(nil, dbErr)

	ok, err := CanAccessProject(context.Background(), projects, 42, 7, types.RoleDeveloper)

	assert.False(t, ok)
	assert.ErrorIs(t, err, dbErr)
}
