package models

import (
	"time"

	"github.com/taskforge-dev/taskforge/internal/types"
)

type Project struct {
	BaseModel

	Name        string              `gorm:"not null" json:"name"`
	Description string              `json:"description"`
	Status      types.ProjectStatus `gorm:"not null;default:planning" json:"status"`
	Priority    types.Priority      `gorm:"not null;default:medium" json:"priority"`
	StartDate   *time.Time          `json:"startDate"`
	EndDate     *time.Time          `json:"endDate"`
	ManagerID   uint                `gorm:"not null;index" json:"managerId"`
	IsDeleted   bool                `gorm:"not null;default:false;index" json:"-"`

	// Relationships
	Manager    User   `gorm:"foreignKey:ManagerID" json:"-"`
	Developers []User `gorm:"many2many:project_developers" json:"developers,omitempty"`
	Tasks      []Task `gorm:"foreignKey:ProjectID" json:"-"`
}
