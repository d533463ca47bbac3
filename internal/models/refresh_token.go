package models

import "time"

type RefreshToken struct {
	BaseModel

	UserID    uint      `gorm:"not null;index" json:"userId"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
