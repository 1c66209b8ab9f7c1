package postgres

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voltgrid/opsconsole/internal/observability/telemetry"
)

// NewConnection initializes a new PostgreSQL connection using GORM
func NewConnection(url string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := registerLatencyCallbacks(db); err != nil {
		return nil, fmt.Errorf("failed to register latency callbacks: %w", err)
	}

	log.Info("Successfully connected to PostgreSQL")
	return db, nil
}

const latencyStartKey = "telemetry:query_start"

func registerLatencyCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("telemetry:before_query", func(tx *gorm.DB) {
		tx.Set(latencyStartKey, time.Now())
	}); err != nil {
		return err
	}
	return db.Callback().Query().After("gorm:query").Register("telemetry:after_query", func(tx *gorm.DB) {
		if start, ok := tx.Get(latencyStartKey); ok {
			telemetry.DatabaseLatency.Observe(time.Since(start.(time.Time)).Seconds())
		}
	})
}

// RunMigrations - migrations are managed via SQL files in migrations/
// AutoMigrate is disabled to prevent conflicts with existing schema
func RunMigrations(db *gorm.DB) error {
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
