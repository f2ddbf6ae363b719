// Package blobstore persists whole JSON documents under fixed keys in a
// single sqlite file. Collections are read and rewritten wholesale; there
// is no partial update path.
package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("blob_not_found")

// Record is one key -> JSON document row.
type Record struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "blobs" }

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Load reads the document stored under key into out.
// Returns ErrNotFound when the key is absent.
func (s *Store) Load(ctx context.Context, key string, out any) error {
	var record Record
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(record.Value, out)
}

// Save overwrites the document stored under key.
func (s *Store) Save(ctx context.Context, key string, value any) error {
	return save(s.db.WithContext(ctx), key, value)
}

// SaveAll overwrites several documents in one transaction. Used where a
// logical operation spans collections (an invoice append plus the owning
// client's counter advance) and must not be separable by a crash.
func (s *Store) SaveAll(ctx context.Context, values map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := save(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the document stored under key. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error
}

func save(tx *gorm.DB, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	record := Record{Key: key, Value: datatypes.JSON(raw), UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
}
