package service

import (
	"context"
	"fmt"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/recur"
	"github.com/stanfish/kids-todo/internal/store"
)

// AchievementService provides helpers around earned badges.
type AchievementService struct {
	achievements store.AchievementStore
}

func NewAchievementService(achievements store.AchievementStore) *AchievementService {
	return &AchievementService{achievements: achievements}
}

func (s *AchievementService) List(ctx context.Context, kidID string) ([]model.Achievement, error) {
	return s.achievements.ListByKid(ctx, kidID)
}

// Award records a badge for a kid on a date. The host UI decides when a
// badge is earned; the core only stores it.
func (s *AchievementService) Award(ctx context.Context, kidID, date, badgeType string) (*model.Achievement, error) {
	if _, err := recur.Parse(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if badgeType == "" {
		badgeType = model.AchievementExcellentDay
	}

	a := model.Achievement{KidID: kidID, Date: date, Type: badgeType}
	if err := s.achievements.Create(ctx, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
