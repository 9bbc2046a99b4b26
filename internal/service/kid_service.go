package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/store"
)

// KidService manages kid profiles, including the cascade that removes a
// kid's tasks and achievements together with the kid.
type KidService struct {
	kids         store.KidStore
	tasks        store.TaskStore
	achievements store.AchievementStore
}

func NewKidService(kids store.KidStore, tasks store.TaskStore, achievements store.AchievementStore) *KidService {
	return &KidService{kids: kids, tasks: tasks, achievements: achievements}
}

func (s *KidService) List(ctx context.Context) ([]model.Kid, error) {
	return s.kids.List(ctx)
}

func (s *KidService) Get(ctx context.Context, id string) (*model.Kid, error) {
	return s.kids.Get(ctx, id)
}

func (s *KidService) Create(ctx context.Context, name string, avatar model.Avatar) (*model.Kid, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if avatar == "" {
		avatar = model.DefaultAvatar
	}
	if !avatar.Valid() {
		return nil, fmt.Errorf("%w: unknown avatar %q", ErrInvalidInput, avatar)
	}

	kid := model.Kid{Name: name, Avatar: avatar}
	if err := s.kids.Create(ctx, &kid); err != nil {
		return nil, err
	}
	return &kid, nil
}

func (s *KidService) Update(ctx context.Context, id string, upd store.KidUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if upd.Avatar != nil && !upd.Avatar.Valid() {
		return fmt.Errorf("%w: unknown avatar %q", ErrInvalidInput, *upd.Avatar)
	}
	return s.kids.Update(ctx, id, upd)
}

// Delete removes a kid and everything they own. The store offers no
// cross-record transactions, so the cascade runs children first: a failure
// part-way leaves the kid in place and the whole operation retryable.
func (s *KidService) Delete(ctx context.Context, id string) error {
	if _, err := s.kids.Get(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.DeleteByKid(ctx, id); err != nil {
		return fmt.Errorf("cascade tasks: %w", err)
	}
	if err := s.achievements.DeleteByKid(ctx, id); err != nil {
		return fmt.Errorf("cascade achievements: %w", err)
	}
	return s.kids.Delete(ctx, id)
}
