// Package notify persists notifications and pushes them to live recipients.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/taskforge-dev/taskforge/internal/models"
	"github.com/taskforge-dev/taskforge/internal/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Payload is one logical notification before fan-out.
type Payload struct {
	Type           types.NotificationType `json:"type"`
	Message        string                 `json:"message"`
	RelatedTask    *uint                  `json:"relatedTask,omitempty"`
	RelatedProject *uint                  `json:"relatedProject,omitempty"`
	Metadata       map[string]any         `json:"metadata,omitempty"`
}

// Event is what a live recipient receives; the timestamp is attached at
// delivery time. The persisted record keeps its own creation time.
type Event struct {
	Payload
	Timestamp time.Time `json:"timestamp"`
}

type NotificationWriter interface {
	CreateBatch(ctx context.Context, ns []models.Notification) error
}

type ProjectGetter interface {
	Get(ctx context.Context, id uint) (*models.Project, error)
}

type AdminLister interface {
	ListAdmins(ctx context.Context) ([]models.User, error)
}

// Pusher delivers an event to a recipient's live channel, best-effort.
type Pusher interface {
	Send(userID uint, event any)
}

type Dispatcher struct {
	notifications NotificationWriter
	projects      ProjectGetter
	users         AdminLister
	pusher        Pusher
	logger        *zap.Logger
}

func NewDispatcher(notifications NotificationWriter, projects ProjectGetter, users AdminLister, pusher Pusher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		projects:      projects,
		users:         users,
		pusher:        pusher,
		logger:        logger.Named("dispatcher"),
	}
}

// NotifyUser persists one notification for the user and pushes it.
func (d *Dispatcher) NotifyUser(ctx context.Context, userID uint, p Payload) error {
	return d.fanOut(ctx, []uint{userID}, p)
}

// NotifyProjectTeam notifies the project's manager and every developer. The
// membership is resolved from the live project at call time.
func (d *Dispatcher) NotifyProjectTeam(ctx context.Context, projectID uint, p Payload) error {
	project, err := d.projects.Get(ctx, projectID)
	if err != nil {
		return err
	}

	recipients := []uint{project.ManagerID}
	for _, dev := range project.Developers {
		recipients = append(recipients, dev.ID)
	}

	return d.fanOut(ctx, recipients, p)
}

// NotifyAdmins notifies every live admin user.
func (d *Dispatcher) NotifyAdmins(ctx context.Context, p Payload) error {
	admins, err := d.users.ListAdmins(ctx)
	if err != nil {
		return err
	}

	recipients := make([]uint, 0, len(admins))
	for _, admin := range admins {
		recipients = append(recipients, admin.ID)
	}

	return d.fanOut(ctx, recipients, p)
}

// fanOut writes one record per recipient and attempts one push per
// recipient. Missing live connections never fail the write.
func (d *Dispatcher) fanOut(ctx context.Context, recipients []uint, p Payload) error {
	records := make([]models.Notification, 0, len(recipients))

	var metadata datatypes.JSON
	if p.Metadata != nil {
		raw, err := json.Marshal(p.Metadata)
		if err != nil {
			return err
		}
		metadata = datatypes.JSON(raw)
	}

	for _, userID := range recipients {
		records = append(records, models.Notification{
			UserID:         userID,
			Type:           p.Type,
			Message:        p.Message,
			RelatedTask:    p.RelatedTask,
			RelatedProject: p.RelatedProject,
			Metadata:       metadata,
		})
	}

	if err := d.notifications.CreateBatch(ctx, records); err != nil {
		return err
	}

	event := Event{Payload: p, Timestamp: time.Now()}
	for _, userID := range recipients {
		d.pusher.Send(userID, event)
	}

	d.logger.Debug("notification dispatched",
		zap.String("type", string(p.Type)),
		zap.Int("recipients", len(recipients)),
	)

	return nil
}
