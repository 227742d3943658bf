// Package testutil provides shared database helpers for repo and service
// tests. Integration tests skip unless TEST_POSTGRES_DSN is set.
package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/titanfab/qcmaster-backend/internal/db"
	"github.com/titanfab/qcmaster-backend/internal/pkg/logger"
)

var (
	once    sync.Once
	shared  *gorm.DB
	openErr error
)

// Logger returns a quiet logger for test wiring.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("logger.New: %v", err)
	}
	return log
}

// DB returns a migrated gorm connection shared by the whole test binary, or
// skips the test when TEST_POSTGRES_DSN is unset.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}
	once.Do(func() {
		gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		if err != nil {
			openErr = err
			return
		}
		log, err := logger.New("test")
		if err != nil {
			openErr = err
			return
		}
		if err := db.NewWithDB(gdb, log).AutoMigrateAll(); err != nil {
			openErr = err
			return
		}
		shared = gdb
	})
	if openErr != nil {
		tb.Fatalf("open test database: %v", openErr)
	}
	return shared
}

// Tx begins a transaction rolled back when the test finishes, so tests never
// leave rows behind.
func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
