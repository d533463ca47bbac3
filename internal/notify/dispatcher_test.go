package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
	"go.uber.org/zap"
)

type mockNotifications struct {
	mock.Mock
}

func (m *mockNotifications) CreateBatch(ctx context.Context, ns []models.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

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

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) ListAdmins(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// recordingPusher captures every Send without needing real connections.
type recordingPusher struct {
	mu   sync.Mutex
	sent []uint
}

func (p *recordingPusher) Send(userID uint, event any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, userID)
}

func userWithID(id uint) models.User {
	u := models.User{}
	u.ID = id
	return u
}

func newTestDispatcher(n *mockNotifications, p *mockProjects, u *mockUsers, pusher Pusher) *Dispatcher {
	return NewDispatcher(n, p, u, pusher, zap.NewNop())
}

func TestNotifyUserPersistsAndPushes(t *testing.T) {
	notifications := new(mockNotifications)
	pusher := &recordingPusher{}
	d := newTestDispatcher(notifications, new(mockProjects), new(mockUsers), pusher)

	taskID := uint(5)
	notifications.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ns []models.Notification) bool {
		return len(ns) == 1 &&
			ns[0].UserID == 10 &&
			ns[0].Type == types.NotificationTaskAssigned &&
			ns[0].RelatedTask != nil && *ns[0].RelatedTask == taskID
	})).Return(nil)

	err := d.NotifyUser(context.Background(), 10, Payload{
		Type:        types.NotificationTaskAssigned,
		Message:     "You have been assigned a task",
		RelatedTask: &taskID,
	})

	require.NoError(t, err)
	notifications.AssertExpectations(t)
	assert.Equal(t, []uint{10}, pusher.sent)
}

func TestNotifyProjectTeamFansOutToManagerAndDevelopers(t *testing.T) {
	notifications := new(mockNotifications)
	projects := new(mockProjects)
	pusher := &recordingPusher{}
	d := newTestDispatcher(notifications, projects, new(mockUsers), pusher)

	project := &models.Project{
		ManagerID:  1,
		Developers: []models.User{userWithID(2), userWithID(3)},
	}
	project.ID = 42
	projects.On("Get", mock.Anything, uint(42)).Return(project, nil)

	notifications.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ns []models.Notification) bool {
		if len(ns) != 3 {
			return false
		}
		return ns[0].UserID == 1 && ns[1].UserID == 2 && ns[2].UserID == 3
	})).Return(nil)

	err := d.NotifyProjectTeam(context.Background(), 42, Payload{
		Type:    types.NotificationProjectUpdated,
		Message: "Project deadline updated",
		Metadata: map[string]any{
			"oldStatus": "todo",
			"newStatus": "in_progress",
		},
	})

	require.NoError(t, err)
	notifications.AssertExpectations(t)
	assert.Equal(t, []uint{1, 2, 3}, pusher.sent)
}

func TestNotifyProjectTeamMissingProject(t *testing.T) {
	notifications := new(mockNotifications)
	projects := new(mockProjects)
	pusher := &recordingPusher{}
	d := newTestDispatcher(notifications, projects, new(mockUsers), pusher)

	lookupErr := errors.New("record not found")
	projects.On("Get", mock.Anything, uint(99)).Return(nil, lookupErr)

	err := d.NotifyProjectTeam(context.Background(), 99, Payload{Type: types.NotificationProjectUpdated})

	assert.ErrorIs(t, err, lookupErr)
	notifications.AssertNotCalled(t, "CreateBatch")
	assert.Empty(t, pusher.sent)
}

func TestNotifyAdmins(t *testing.T) {
	notifications := new(mockNotifications)
	users := new(mockUsers)
	pusher := &recordingPusher{}
	d := newTestDispatcher(notifications, new(mockProjects), users, pusher)

	users.On("ListAdmins", mock.Anything).Return([]models.User{userWithID(4), userWithID(9)}, nil)
	notifications.On("CreateBatch", mock.Anything, mock.MatchedBy(func(ns []models.Notification) bool {
		return len(ns) == 2 && ns[0].UserID == 4 && ns[1].UserID == 9
	})).Return(nil)

	err := d.NotifyAdmins(context.Background(), Payload{
		Type:    types.NotificationSystemAlert,
		Message: "Deadline approaching",
	})

	require.NoError(t, err)
	notifications.AssertExpectations(t)
	assert.Equal(t, []uint{4, 9}, pusher.sent)
}

func TestPersistFailureStopsPush(t *testing.T) {
	notifications := new(mockNotifications)
	pusher := &recordingPusher{}
	d := newTestDispatcher(notifications, new(mockProjects), new(mockUsers), pusher)

	writeErr := errors.New("insert failed")
	notifications.On("CreateBatch", mock.Anything, mock.Anything).Return(writeErr)

	err := d.NotifyUser(context.Background(), 10, Payload{Type: types.NotificationTaskAssigned})

	assert.ErrorIs(t, err, writeErr)
	assert.Empty(t, pusher.sent)
}

func TestHubWithoutConnectionsDoesNotFailDispatch(t *testing.T) {
	notifications := new(mockNotifications)
	hub := NewHub(zap.NewNop())
	d := newTestDispatcher(notifications, new(mockProjects), new(mockUsers), hub)

	notifications.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	err := d.NotifyUser(context.Background(), 77, Payload{
		Type:    types.NotificationTaskUpdated,
		Message: "Task moved",
	})

	require.NoError(t, err)
	notifications.AssertExpectations(t)
}
