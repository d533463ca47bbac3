package models

import (
	"time"

	"github.com/taskforge-dev/taskforge/internal/types"
)

type User struct {
	BaseModel

	Name                 string     `gorm:"not null" json:"name"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash         string     `gorm:"not null" json:"-"`
	Role                 types.Role `gorm:"not null;default:developer" json:"role"`
	Avatar               string     `json:"avatar"`
	IsVerified           bool       `gorm:"not null;default:false" json:"isVerified"`
	IsDeleted            bool       `gorm:"not null;default:false;index" json:"-"`
	VerificationCode     string     `json:"-"`
	PasswordResetCode    *string    `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	// Relationships
	ManagedProjects []Project      `gorm:"foreignKey:ManagerID" json:"-"`
	AssignedTasks   []Task         `gorm:"foreignKey:AssignedTo" json:"-"`
	Notifications   []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	RefreshTokens   []RefreshToken `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
