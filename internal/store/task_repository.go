package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stanfish/kids-todo/internal/model"
)

// TaskRepository is the GORM-backed TaskStore.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByKidAndDate(ctx context.Context, kidID, date string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("kid_id = ? AND date = ?", kidID, date).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks by date: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListUndatedByKid(ctx context.Context, kidID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("kid_id = ? AND date IS NULL", kidID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list undated tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListAllByKid(ctx context.Context, kidID string) ([]model.Task, error) {
	var tasks []model.Task
	// SQLite sorts NULLs last on DESC, so undated tasks trail the dated ones.
	if err := r.db.WithContext(ctx).
		Where("kid_id = ?", kidID).
		Order("date DESC, created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find task: %w", err)
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// CreateInstances writes materialized instances one by one: a failed write
// does not stop the rest, successes are never rolled back, and inserts that
// hit the series-slot unique index are silently skipped.
func (r *TaskRepository) CreateInstances(ctx context.Context, tasks []model.Task) (int, error) {
	created := 0
	var errs []error
	for i := range tasks {
		task := tasks[i]
		if task.ID == "" {
			task.ID = uuid.New().String()
		}
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&task)
		if res.Error != nil {
			errs = append(errs, fmt.Errorf("create instance %s/%s: %w", task.Title, deref(task.Date), res.Error))
			continue
		}
		created += int(res.RowsAffected)
	}
	return created, errors.Join(errs...)
}

func (r *TaskRepository) Update(ctx context.Context, id string, upd TaskUpdate) error {
	updates := map[string]interface{}{}
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.IsCompleted != nil {
		updates["is_completed"] = *upd.IsCompleted
		if *upd.IsCompleted {
			updates["completed_at"] = time.Now()
		} else {
			updates["completed_at"] = nil
		}
	}
	if upd.RecurringDays != nil {
		updates["recurring_days"] = datatypes.JSONSlice[int](*upd.RecurringDays)
	}
	if upd.Points != nil {
		updates["points"] = *upd.Points
	}
	if upd.Category != nil {
		updates["category"] = *upd.Category
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteSeries(ctx context.Context, kidID, title string) error {
	if err := r.db.WithContext(ctx).
		Where("kid_id = ? AND title = ? AND is_recurring = ?", kidID, title, true).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}

func (r *TaskRepository) DeleteByKid(ctx context.Context, kidID string) error {
	if err := r.db.WithContext(ctx).
		Where("kid_id = ?", kidID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete tasks by kid: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
