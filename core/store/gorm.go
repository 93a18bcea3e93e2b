package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"improved-initiative/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one stored item.
type Record struct {
	Namespace string `gorm:"primaryKey;size:64"`
	ID        string `gorm:"primaryKey;size:64;column:id"`
	Body      []byte
	UpdatedAt int64 `gorm:"autoUpdateTime:milli"`
}

// TableName implements gorm's tabler.
func (Record) TableName() string { return "library_items" }

// GormStore keeps items in the library_items table.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
	log *zap.Logger
}

// NewGormStore wraps db. Call Migrate before first use.
func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	o := buildOptions(opts)
	return &GormStore{db: db, now: time.Now, log: o.log}
}

// Migrate creates library_items and checks its columns.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate library_items: %w", err)
	}
	missing, err := database.MissingColumns(s.db.WithContext(ctx), Record{}.TableName(), "namespace", "id", "body", "updated_at")
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("library_items is missing columns %v", missing)
	}
	return nil
}

func (s *GormStore) LoadAll(ctx context.Context, namespace string) ([]json.RawMessage, error) {
	var records []Record
	err := s.db.WithContext(ctx).
		Where("namespace = ?", namespace).
		Order("updated_at, id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", namespace, err)
	}

	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		id, body, changed, err := ensureID(r.ID, r.Body)
		if err != nil {
			warnCorrupt(s.log, namespace, r.ID, err)
			out = append(out, r.Body)
			continue
		}
		if changed || id != r.ID {
			if err := s.rekey(ctx, r, id, body); err != nil {
				return nil, err
			}
		}
		out = append(out, body)
	}
	return out, nil
}

// rekey persists an assigned id, moving the record when its key changes.
func (s *GormStore) rekey(ctx context.Context, old Record, id string, body []byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if old.ID != id {
			if err := tx.Where("namespace = ? AND id = ?", old.Namespace, old.ID).Delete(&Record{}).Error; err != nil {
				return fmt.Errorf("failed to move %s/%q: %w", old.Namespace, old.ID, err)
			}
		}
		return upsert(tx, Record{Namespace: old.Namespace, ID: id, Body: body, UpdatedAt: old.UpdatedAt})
	})
}

func (s *GormStore) Load(ctx context.Context, namespace, id string) (json.RawMessage, error) {
	var r Record
	err := s.db.WithContext(ctx).Where("namespace = ? AND id = ?", namespace, id).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s/%s: %w", namespace, id, err)
	}
	return r.Body, nil
}

func (s *GormStore) Save(ctx context.Context, namespace, id string, item any) error {
	body, err := encode(item)
	if err != nil {
		return err
	}
	r := Record{Namespace: namespace, ID: id, Body: body, UpdatedAt: s.now().UnixMilli()}
	if err := upsert(s.db.WithContext(ctx), r); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", namespace, id, err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, namespace, id string) error {
	err := s.db.WithContext(ctx).Where("namespace = ? AND id = ?", namespace, id).Delete(&Record{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", namespace, id, err)
	}
	return nil
}

func upsert(db *gorm.DB, r Record) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&r).Error
}
