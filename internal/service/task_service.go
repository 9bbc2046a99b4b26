package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/recur"
	"github.com/stanfish/kids-todo/internal/store"
)

// ErrInvalidInput marks validation failures; callers surface these to the
// user without retrying.
var ErrInvalidInput = errors.New("invalid input")

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title         string
	Description   string
	Date          *string // YYYY-MM-DD, nil for a general task
	IsRecurring   bool
	RecurringDays []int
	Points        int
	Category      string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	tasks store.TaskStore
}

func NewTaskService(tasks store.TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

// Create validates and persists a new task. Recurring tasks become the
// template of a fresh series and get a stable series ID that every
// materialized instance will inherit.
func (s *TaskService) Create(ctx context.Context, kidID string, input TaskInput) (*model.Task, error) {
	if kidID == "" {
		return nil, fmt.Errorf("%w: kid id is required", ErrInvalidInput)
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Date != nil {
		if _, err := recur.Parse(*input.Date); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if err := validateRecurringDays(input.RecurringDays); err != nil {
		return nil, err
	}

	task := model.Task{
		KidID:       kidID,
		Title:       title,
		Description: input.Description,
		Date:        input.Date,
		IsRecurring: input.IsRecurring,
		Points:      input.Points,
		Category:    input.Category,
	}

	// Recurrence fields are only meaningful on recurring tasks.
	if input.IsRecurring {
		task.RecurringDays = datatypes.JSONSlice[int](input.RecurringDays)
		seriesID := uuid.New().String()
		task.SeriesID = &seriesID
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.Get(ctx, id)
}

// Update applies a partial edit to one task. Edits never propagate to other
// instances of the task's series; only the latest-dated instance shapes
// future materialization.
func (s *TaskService) Update(ctx context.Context, id string, upd store.TaskUpdate) error {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if upd.RecurringDays != nil {
		if err := validateRecurringDays(*upd.RecurringDays); err != nil {
			return err
		}
	}
	return s.tasks.Update(ctx, id, upd)
}

// SetCompleted toggles the completion flag. The store pairs the flag with
// the completion timestamp: set on complete, cleared on un-complete.
func (s *TaskService) SetCompleted(ctx context.Context, id string, completed bool) (*model.Task, error) {
	if err := s.tasks.Update(ctx, id, store.TaskUpdate{IsCompleted: &completed}); err != nil {
		return nil, err
	}
	return s.tasks.Get(ctx, id)
}

// Delete removes a single task, or the task's entire recurring series when
// wholeSeries is set. The choice is the caller's whenever the target is
// recurring; for non-recurring tasks wholeSeries has no effect.
func (s *TaskService) Delete(ctx context.Context, id string, wholeSeries bool) error {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	if wholeSeries && task.IsRecurring {
		return s.tasks.DeleteSeries(ctx, task.KidID, task.Title)
	}
	return s.tasks.Delete(ctx, id)
}

// ListForDate returns a kid's tasks on one date.
func (s *TaskService) ListForDate(ctx context.Context, kidID, date string) ([]model.Task, error) {
	if _, err := recur.Parse(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.tasks.ListByKidAndDate(ctx, kidID, date)
}

// ListGeneral returns a kid's undated tasks.
func (s *TaskService) ListGeneral(ctx context.Context, kidID string) ([]model.Task, error) {
	return s.tasks.ListUndatedByKid(ctx, kidID)
}

// ListAll returns every task of a kid, latest date first.
func (s *TaskService) ListAll(ctx context.Context, kidID string) ([]model.Task, error) {
	return s.tasks.ListAllByKid(ctx, kidID)
}

func validateRecurringDays(days []int) error {
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: recurring day %d out of range 0-6", ErrInvalidInput, d)
		}
	}
	return nil
}
