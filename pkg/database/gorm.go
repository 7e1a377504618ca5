package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/zhouzirui/eunoia/backend/internal/pkg/logger"
)

// logWriter routes gorm's SQL log through the application logger.
type logWriter struct {
	log logger.Logger
}

func (w logWriter) Printf(format string, args ...interface{}) {
	w.log.Debug("gorm", fmt.Sprintf(format, args...), nil)
}

func newGormLogger(log logger.Logger) gormlogger.Interface {
	return gormlogger.New(
		logWriter{log: log},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // keep chat content out of logs
			Colorful:                  false,
		},
	)
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDBFromDSN opens a PostgreSQL connection pool.
func NewGormDBFromDSN(dsn string, log logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, fmt.Errorf("configure connection pool: %w", err)
	}

	return db, nil
}
