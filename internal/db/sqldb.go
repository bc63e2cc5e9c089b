package db

import (
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/creatorstation/urlshot/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens (creating if needed) the embedded cache database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("could not create cache directory: %w", err)
		}
	}

	// WAL lets readers proceed while the single writer appends.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	return open(sqlite.Open(dsn))
}

// OpenPostgres connects to the cache database described by dsn.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return open(postgres.Open(dsn))
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.CacheRecord{}); err != nil {
		return nil, fmt.Errorf("could not migrate cache schema: %w", err)
	}

	return db, nil
}
