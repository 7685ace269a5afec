package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// blob is the single table backing the store: one row per named blob.
type blob struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (blob) TableName() string { return "blobs" }

// SQLiteStore persists blobs in a local SQLite database.
type SQLiteStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSQLiteStore opens (creating if necessary) the database at path and
// migrates the blobs table.
func NewSQLiteStore(path string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.AutoMigrate(&blob{}); err != nil {
		return nil, fmt.Errorf("error migrating blobs table: %w", err)
	}

	log.Debug("opened blob store", zap.String("path", path))
	return &SQLiteStore{db: db, log: log}, nil
}

// Get returns the blob stored under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row blob
	err := s.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.Value, nil
}

// Set stores value under key, overwriting any previous blob.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	row := blob{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// Remove deletes the blob under key. Removing an absent key is a no-op.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&blob{}, "key = ?", key).Error
}
