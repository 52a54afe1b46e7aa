// Package setting provides CRUD operations for managing application settings.
package setting

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Miraubolant/MiroTrak-sub001/internal/db/models"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting to read or write a setting with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrInvalidType is returned for a type tag outside string, json, boolean and number.
	ErrInvalidType = errors.New("invalid setting type")
	// ErrInvalidValue is returned when a value cannot be decoded under its type.
	ErrInvalidValue = errors.New("invalid setting value")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// upsertColumns are overwritten when a key already exists. created_at is kept.
var upsertColumns = []string{"value", "type", "description", "updated_at"}

// Input is a single create-or-replace request.
type Input struct {
	Key         string
	Value       string
	Type        string
	Description *string
}

// Store is the settings table access layer.
type Store struct {
	db *gorm.DB
}

// New returns a Store using db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsValidation reports whether err was caused by bad input rather than storage.
func IsValidation(err error) bool {
	return errors.Is(err, ErrSettingKeyEmpty) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidValue)
}

// GetAll retrieves all settings in insertion order.
func (s *Store) GetAll(ctx context.Context) ([]models.Setting, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNil
	}

	settings := make([]models.Setting, 0)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Order("id").Find(&settings).Error
	})
	if err != nil {
		return nil, err
	}

	return settings, nil
}

// Get retrieves a setting by its key.
func (s *Store) Get(ctx context.Context, key string) (*models.Setting, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNil
	}

	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return first(tx, key, &setting)
	})
	if err != nil {
		return nil, err
	}

	return &setting, nil
}

// Upsert creates the setting or replaces value, type and description of the
// existing row with the same key. The write and the read back share one transaction.
func (s *Store) Upsert(ctx context.Context, in Input) (*models.Setting, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNil
	}

	row, err := in.toModel()
	if err != nil {
		return nil, err
	}

	var setting models.Setting

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(row)
		if result.Error != nil {
			return result.Error
		}

		return first(tx, row.Key, &setting)
	})
	if err != nil {
		return nil, err
	}

	writesTotal.WithLabelValues(opUpsert).Inc()

	return &setting, nil
}

// BulkUpsert applies Upsert to each entry in order. It stops at the first
// failure; entries written before it stay committed and are returned.
func (s *Store) BulkUpsert(ctx context.Context, in []Input) ([]models.Setting, error) {
	out := make([]models.Setting, 0, len(in))

	for i, entry := range in {
		setting, err := s.Upsert(ctx, entry)
		if err != nil {
			return out, fmt.Errorf("settings[%d] (%s): %w", i, entry.Key, err)
		}

		out = append(out, *setting)
	}

	return out, nil
}

// Delete removes a setting by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s == nil || s.db == nil {
		return ErrDBNil
	}

	if key == "" {
		return ErrSettingKeyEmpty
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(&models.Setting{Key: key}).Delete(&models.Setting{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrSettingNotFound
		}

		return nil
	})
	if err != nil {
		return err
	}

	writesTotal.WithLabelValues(opDelete).Inc()

	return nil
}

func first(tx *gorm.DB, key string, dst *models.Setting) error {
	err := tx.Where(&models.Setting{Key: key}).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSettingNotFound
	}

	return err
}

func (in Input) toModel() (*models.Setting, error) {
	if in.Key == "" {
		return nil, ErrSettingKeyEmpty
	}

	t, err := ParseType(in.Type)
	if err != nil {
		return nil, err
	}

	if _, err = Decode(t, in.Value); err != nil {
		return nil, err
	}

	return &models.Setting{
		Key:         in.Key,
		Value:       in.Value,
		Type:        string(t),
		Description: in.Description,
	}, nil
}
