package database

import (
	"innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	modelsToMigrate := []interface{}{
		&models.User{},
		&models.RoomType{},
		&models.Room{},
		&models.Reservation{},
		&models.Service{},
		&models.ServiceRequest{},
		&models.Review{},
	}

	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create
// automatically. The composite reservation index serves both the overlap
// guard and the availability exclusion query.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reservations_room_status_dates ON reservations(room_id, status, check_in, check_out)",
		"CREATE INDEX IF NOT EXISTS idx_reservations_guest_status ON reservations(guest_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_service_requests_reservation_status ON service_requests(reservation_id, status)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
