// Package storage is the durable mirror of the application state: a
// versioned record kept under a single key in a key-value store, with
// migration on version mismatch and import/export.
package storage

import (
	"errors"
	"os"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// KeyValue is the minimal store the gateway persists through.
type KeyValue interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Entry is one row of the entries table backing the gorm key-value store.
type Entry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// GormKV is a KeyValue backed by a gorm-managed table.
type GormKV struct {
	db *gorm.DB
}

// OpenDB connects to Postgres when DATABASE_URL is set and falls back to
// a local sqlite file otherwise, migrating the entries table.
func OpenDB() (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "salon_shifts.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return db, nil
}

// NewGormKV wraps an open gorm connection as a KeyValue.
func NewGormKV(db *gorm.DB) *GormKV {
	return &GormKV{db: db}
}

// Get returns the stored value for key, with ok=false when absent.
func (s *GormKV) Get(key string) (string, bool, error) {
	var entry Entry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set writes or replaces the value for key.
func (s *GormKV) Set(key, value string) error {
	return s.db.Save(&Entry{Key: key, Value: value}).Error
}

// Delete removes the value for key. Deleting an absent key is a no-op.
func (s *GormKV) Delete(key string) error {
	return s.db.Delete(&Entry{}, "key = ?", key).Error
}

// MemoryKV is an in-process KeyValue for tests and ephemeral runs.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

func (s *MemoryKV) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *MemoryKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *MemoryKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
