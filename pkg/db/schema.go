package db

import (
	"gorm.io/gorm"

	"github.com/ambernegi/rha/pkg/db/models"
)

// Models lists every persisted model. SQLite databases are built from it with
// AutoMigrate; Postgres uses the goose migrations instead.
func Models() []any {
	return []any{
		&models.Resource{},
		&models.Configuration{},
		&models.ConfigurationResource{},
		&models.Reservation{},
		&models.OccupancyLock{},
		&models.OutboxEvent{},
		&models.OutboxDLQ{},
	}
}

// AutoMigrate creates the schema for the given connection.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(Models()...)
}
