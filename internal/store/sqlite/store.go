package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tradepulse/internal/store/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LedgerStore reads the engine's persisted order and signal rows through
// gorm. The engine owns the schema and writes; this side only queries, but
// AutoMigrate keeps local/dev databases usable without the engine running.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(path string) (*LedgerStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	return newLedgerStore(db)
}

// NewLedgerStoreFromDB wraps an existing gorm handle (shared connections,
// tests).
func NewLedgerStoreFromDB(db *gorm.DB) (*LedgerStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db cannot be nil")
	}
	return newLedgerStore(db)
}

func newLedgerStore(db *gorm.DB) (*LedgerStore, error) {
	models := []interface{}{
		&model.OrderStateModel{},
		&model.SignalModel{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		// SQLite + WAL: a little parallelism for concurrent HTTP reads
		// while keeping lock contention low.
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &LedgerStore{db: db}, nil
}

func (s *LedgerStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
