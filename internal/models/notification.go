package models

import (
	"github.com/taskforge-dev/taskforge/internal/types"
	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel

	UserID         uint                   `gorm:"not null;index" json:"userId"`
	Type           types.NotificationType `gorm:"not null" json:"type"`
	Message        string                 `gorm:"not null" json:"message"`
	RelatedTask    *uint                  `json:"relatedTask,omitempty"`
	RelatedProject *uint                  `json:"relatedProject,omitempty"`
	IsRead         bool                   `gorm:"not null;default:false" json:"isRead"`
	Metadata       datatypes.JSON         `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
