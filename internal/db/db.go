package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. Postgres additionally gets a
// partial unique index so two active appointments can never share a box
// start on the same day.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Service{},
		&models.Box{},
		&models.Appointment{},
		&models.ServiceHistory{},
		&models.LoyaltyTransaction{},
		&models.STOInfo{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_box_start
			ON appointments (box_id, appointment_date, start_time)
			WHERE status IN ('pending', 'confirmed')
		`).Error; err != nil {
			return fmt.Errorf("create active slot index: %w", err)
		}
	}

	return nil
}
