// Package store is the record-store adapter: the narrow create/read/update/
// delete surface the core uses to reach the document database. Services
// consume the interfaces below; the GORM repositories in this package
// implement them.
package store

import (
	"context"
	"errors"

	"github.com/stanfish/kids-todo/internal/model"
)

// ErrNotFound is returned when a point read or update misses.
var ErrNotFound = errors.New("record not found")

// KidUpdate carries a partial kid mutation; nil fields are left unchanged.
type KidUpdate struct {
	Name   *string
	Avatar *model.Avatar
}

// TaskUpdate carries a partial task mutation; nil fields are left unchanged.
// Setting IsCompleted also sets or clears the completion timestamp so that
// CompletedAt is present exactly when the task is completed.
type TaskUpdate struct {
	Title         *string
	Description   *string
	IsCompleted   *bool
	RecurringDays *[]int
	Points        *int
	Category      *string
}

// KidStore manages kid profiles.
type KidStore interface {
	// List returns all kids, most recently created first.
	List(ctx context.Context) ([]model.Kid, error)
	Get(ctx context.Context, id string) (*model.Kid, error)
	Create(ctx context.Context, kid *model.Kid) error
	Update(ctx context.Context, id string, upd KidUpdate) error
	Delete(ctx context.Context, id string) error
}

// TaskStore manages tasks, dated and general.
type TaskStore interface {
	// ListByKidAndDate returns the kid's tasks for one date, oldest first.
	ListByKidAndDate(ctx context.Context, kidID, date string) ([]model.Task, error)
	// ListUndatedByKid returns the kid's general tasks, oldest first.
	ListUndatedByKid(ctx context.Context, kidID string) ([]model.Task, error)
	// ListAllByKid returns every task of the kid, latest date first and
	// within one date oldest created first; undated tasks sort last.
	ListAllByKid(ctx context.Context, kidID string) ([]model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	// CreateInstances persists materialized instances. Each write is
	// independent: a failure does not stop the batch and already-occupied
	// series slots are skipped, not errors. Returns the number created
	// alongside any joined write errors.
	CreateInstances(ctx context.Context, tasks []model.Task) (int, error)
	Update(ctx context.Context, id string, upd TaskUpdate) error
	Delete(ctx context.Context, id string) error
	// DeleteSeries removes every recurring task of the kid with the given
	// title, past and future; same-titled non-recurring tasks stay.
	DeleteSeries(ctx context.Context, kidID, title string) error
	// DeleteByKid removes all of the kid's tasks (cascade helper).
	DeleteByKid(ctx context.Context, kidID string) error
}

// AchievementStore manages earned badges.
type AchievementStore interface {
	// ListByKid returns the kid's achievements, newest date first.
	ListByKid(ctx context.Context, kidID string) ([]model.Achievement, error)
	Create(ctx context.Context, a *model.Achievement) error
	DeleteByKid(ctx context.Context, kidID string) error
}
