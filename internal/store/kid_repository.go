package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stanfish/kids-todo/internal/model"
)

// KidRepository is the GORM-backed KidStore.
type KidRepository struct {
	db *gorm.DB
}

func NewKidRepository(db *gorm.DB) *KidRepository {
	return &KidRepository{db: db}
}

func (r *KidRepository) List(ctx context.Context) ([]model.Kid, error) {
	var kids []model.Kid
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&kids).Error; err != nil {
		return nil, fmt.Errorf("list kids: %w", err)
	}
	return kids, nil
}

func (r *KidRepository) Get(ctx context.Context, id string) (*model.Kid, error) {
	var kid model.Kid
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&kid).Error
	switch {
	case err == nil:
		return &kid, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find kid: %w", err)
	}
}

func (r *KidRepository) Create(ctx context.Context, kid *model.Kid) error {
	if kid.ID == "" {
		kid.ID = uuid.New().String()
	}
	if kid.Avatar == "" {
		kid.Avatar = model.DefaultAvatar
	}
	if err := r.db.WithContext(ctx).Create(kid).Error; err != nil {
		return fmt.Errorf("create kid: %w", err)
	}
	return nil
}

func (r *KidRepository) Update(ctx context.Context, id string, upd KidUpdate) error {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Avatar != nil {
		updates["avatar"] = *upd.Avatar
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Kid{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update kid: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *KidRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Kid{}).Error; err != nil {
		return fmt.Errorf("delete kid: %w", err)
	}
	return nil
}
