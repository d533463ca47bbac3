// Package store implements the data access layer: one store per entity over
// a shared, injected gorm handle. Default query scope excludes soft-deleted
// rows; hard deletes cascade inside a single transaction.
package store

import "gorm.io/gorm"

type Store struct {
	Users         *UserStore
	Projects      *ProjectStore
	Tasks         *TaskStore
	Notifications *NotificationStore
	RefreshTokens *RefreshTokenStore
}

func New(conn *gorm.DB) *Store {
	return &Store{
		Users:         NewUserStore(conn),
		Projects:      NewProjectStore(conn),
		Tasks:         NewTaskStore(conn),
		Notifications: NewNotificationStore(conn),
		RefreshTokens: NewRefreshTokenStore(conn),
	}
}
