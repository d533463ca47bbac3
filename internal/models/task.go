package models

import (
	"time"

	"github.com/taskforge-dev/taskforge/internal/types"
)

// Task belongs to exactly one project; ProjectID and CreatedBy never change
// after creation.
type Task struct {
	BaseModel

	Title          string           `gorm:"not null" json:"title"`
	Description    string           `json:"description"`
	Status         types.TaskStatus `gorm:"not null;default:todo" json:"status"`
	Priority       types.Priority   `gorm:"not null;default:medium" json:"priority"`
	ProjectID      uint             `gorm:"not null;index" json:"projectId"`
	AssignedTo     uint             `gorm:"not null;index" json:"assignedTo"`
	CreatedBy      uint             `gorm:"not null;index" json:"createdBy"`
	EstimatedHours float64          `json:"estimatedHours"`
	ActualHours    float64          `gorm:"not null;default:0" json:"actualHours"`
	DueDate        *time.Time       `json:"dueDate"`
	IsDeleted      bool             `gorm:"not null;default:false;index" json:"-"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID" json:"-"`
	Assignee User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Creator  User    `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}
