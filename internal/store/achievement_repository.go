package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stanfish/kids-todo/internal/model"
)

// AchievementRepository is the GORM-backed AchievementStore.
type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) ListByKid(ctx context.Context, kidID string) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := r.db.WithContext(ctx).
		Where("kid_id = ?", kidID).
		Order("date DESC").
		Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}

func (r *AchievementRepository) Create(ctx context.Context, a *model.Achievement) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.EarnedAt.IsZero() {
		a.EarnedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create achievement: %w", err)
	}
	return nil
}

func (r *AchievementRepository) DeleteByKid(ctx context.Context, kidID string) error {
	if err := r.db.WithContext(ctx).
		Where("kid_id = ?", kidID).
		Delete(&model.Achievement{}).Error; err != nil {
		return fmt.Errorf("delete achievements by kid: %w", err)
	}
	return nil
}
