package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/medical-scheduler/internal/config"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// partial unique indexes backing the booking invariants
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
        ON appointments (doctor_id, date_time)
        WHERE status IN ('pending', 'confirmed')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_availability_exceptions_active_date
        ON availability_exceptions (doctor_id, date)
        WHERE active`,
}

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Patient{},
		&models.DoctorAvailabilityRule{},
		&models.AvailabilityException{},
		&models.Holiday{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatal("failed to create index", zap.Error(err))
		}
	}

	db.Exec(`
        UPDATE doctors
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.ClinicTimezone)

	return db
}
