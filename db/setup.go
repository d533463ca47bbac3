package db

import (
	"github.com/taskforge-dev/taskforge/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(conn *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Notification{},
		&models.RefreshToken{},
	}

	migrator := conn.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := conn.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
