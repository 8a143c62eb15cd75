package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens a gorm connection for the given driver. Timestamps are written in UTC and
// unique-constraint failures are translated to gorm.ErrDuplicatedKey.
func Connect(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(log),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		// A single connection keeps in-memory databases alive and serializes writers.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectAssignment{},
		&models.Task{},
	}

	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}

// SQLX wraps the connection pool behind db for hand-written reporting queries.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	driverName := "pgx"
	if db.Dialector.Name() == DriverSQLite {
		driverName = "sqlite3"
	}

	return sqlx.NewDb(sqlDB, driverName), nil
}

func newLogger(log *slog.Logger) logger.Interface {
	if log == nil {
		return logger.Discard
	}

	return logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
