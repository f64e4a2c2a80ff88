package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one row of the records table
type Record struct {
	ID        uint      `gorm:"primaryKey"`
	Resource  string    `gorm:"size:64;not null;index:idx_records_resource_position,priority:1"`
	Position  int       `gorm:"not null;index:idx_records_resource_position,priority:2"`
	Payload   string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GormStore keeps every resource in a single relational table, one row per
// record, ordered by position
type GormStore struct {
	db *gorm.DB
}

// NewPostgresConnection opens a gorm handle on a postgres DSN
func NewPostgresConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewGormStore migrates the records table
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate records: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) ReadAll(ctx context.Context, resource string) ([]json.RawMessage, error) {
	if err := validResource(resource); err != nil {
		return nil, err
	}

	var rows []Record
	err := s.db.WithContext(ctx).
		Where("resource = ?", resource).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resource, err)
	}

	out := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, json.RawMessage(row.Payload))
	}
	return out, nil
}

// WriteAll replaces the rows of resource inside one transaction
func (s *GormStore) WriteAll(ctx context.Context, resource string, records []json.RawMessage) error {
	if err := validResource(resource); err != nil {
		return err
	}

	now := time.Now()
	rows := make([]Record, 0, len(records))
	for i, r := range records {
		if !json.Valid(r) {
			return fmt.Errorf("write %s: record %d is not valid JSON", resource, i)
		}
		rows = append(rows, Record{
			Resource:  resource,
			Position:  i,
			Payload:   string(r),
			UpdatedAt: now,
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("resource = ?", resource).Delete(&Record{}).Error; err != nil {
			return fmt.Errorf("write %s: %w", resource, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("write %s: %w", resource, err)
		}
		return nil
	})
}

// Init only validates names: an absent resource already reads as no rows
func (s *GormStore) Init(_ context.Context, resources ...string) error {
	for _, resource := range resources {
		if err := validResource(resource); err != nil {
			return err
		}
	}
	return nil
}
