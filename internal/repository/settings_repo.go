package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classboard/rollcall-api/internal/models"
)

// SettingsRepository persists key/value configuration rows.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (models.Setting, error)
	Set(ctx context.Context, key string, value []byte) error
	SeedDefaults(ctx context.Context) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs a settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return models.Setting{}, err
	}
	return setting, nil
}

func (r *settingsRepository) Set(ctx context.Context, key string, value []byte) error {
	setting := models.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// SeedDefaults writes the probability and score-rules rows when absent.
// Existing values are never overwritten.
func (r *settingsRepository) SeedDefaults(ctx context.Context) error {
	rules, err := json.Marshal(models.DefaultScoreRules())
	if err != nil {
		return fmt.Errorf("marshal default score rules: %w", err)
	}

	defaults := []models.Setting{
		{
			Key:   models.SettingRandomEventProbability,
			Value: []byte(strconv.Quote(strconv.FormatFloat(models.DefaultRandomEventProbability, 'f', -1, 64))),
		},
		{
			Key:   models.SettingScoreRules,
			Value: rules,
		},
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, setting := range defaults {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
