package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/recur"
	"github.com/stanfish/kids-todo/internal/store"
)

const (
	// horizonDays is how far forward instances are materialized.
	horizonDays = 30
	// retentionDays is how far back materialized instances are kept.
	retentionDays = 30
)

// RecurringService synthesizes concrete per-date task instances from
// recurring templates, keeps the forward horizon populated as the user
// navigates, and reaps instances past the retention window.
type RecurringService struct {
	tasks store.TaskStore
	now   func() time.Time
}

func NewRecurringService(tasks store.TaskStore) *RecurringService {
	return &RecurringService{tasks: tasks, now: time.Now}
}

// Materialize creates the missing instances of template for the 30 days
// following anchor (today when anchor is empty). Re-running it is a no-op
// for dates that already carry an instance of the series; a concurrent
// duplicate attempt is absorbed by the store's series-slot index. Writes are
// independent: a failure leaves earlier successes in place and surfaces in
// the returned aggregate error.
func (s *RecurringService) Materialize(ctx context.Context, template *model.Task, anchor string) error {
	if !template.IsRecurring {
		return nil
	}

	anchorDate := s.now()
	if anchor != "" {
		parsed, err := recur.Parse(anchor)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		anchorDate = parsed
	}

	var queued []model.Task
	for i := 1; i <= horizonDays; i++ {
		target := anchorDate.AddDate(0, 0, i)
		if !recur.ShouldRecur(target, template.RecurringDays) {
			continue
		}
		targetDate := recur.Format(target)

		existing, err := s.tasks.ListByKidAndDate(ctx, template.KidID, targetDate)
		if err != nil {
			return err
		}
		if hasSeriesInstance(existing, template) {
			continue
		}
		queued = append(queued, instanceOf(template, targetDate))
	}

	_, err := s.tasks.CreateInstances(ctx, queued)
	return err
}

// EnsureExists makes sure every recurring series of the kid has its instance
// on targetDate, creating the missing ones. Only forward materialization is
// supported: dates up to and including today are left alone. For each series
// the latest-dated instance acts as the template, so the most recent edits
// to a series win.
func (s *RecurringService) EnsureExists(ctx context.Context, kidID, targetDate string) error {
	target, err := recur.Parse(targetDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	today := recur.Format(s.now())
	if targetDate <= today {
		return nil
	}

	all, err := s.tasks.ListAllByKid(ctx, kidID)
	if err != nil {
		return err
	}

	// ListAllByKid is ordered latest date first, so the first instance seen
	// per series is the authoritative template.
	templates := make(map[string]*model.Task)
	var order []string
	for i := range all {
		task := &all[i]
		if !task.IsRecurring {
			continue
		}
		key := seriesKey(task)
		if _, ok := templates[key]; !ok {
			templates[key] = task
			order = append(order, key)
		}
	}
	if len(templates) == 0 {
		return nil
	}

	existing, err := s.tasks.ListByKidAndDate(ctx, kidID, targetDate)
	if err != nil {
		return err
	}
	present := make(map[string]bool)
	for i := range existing {
		// Any same-titled task on the date blocks the series, recurring or
		// not; a manual one-off already fills the slot visually.
		present["title:"+existing[i].Title] = true
		if existing[i].SeriesID != nil {
			present["id:"+*existing[i].SeriesID] = true
		}
	}

	var queued []model.Task
	for _, key := range order {
		template := templates[key]
		if present["title:"+template.Title] {
			continue
		}
		if template.SeriesID != nil && present["id:"+*template.SeriesID] {
			continue
		}
		if !recur.ShouldRecur(target, template.RecurringDays) {
			continue
		}
		queued = append(queued, instanceOf(template, targetDate))
	}

	_, err = s.tasks.CreateInstances(ctx, queued)
	return err
}

// Sweep deletes the kid's recurring instances dated strictly before the
// retention cutoff (today minus 30 days). Non-recurring and undated tasks
// are never swept. Deletions are independent; failures aggregate.
func (s *RecurringService) Sweep(ctx context.Context, kidID string) error {
	cutoff := recur.Format(s.now().AddDate(0, 0, -retentionDays))

	all, err := s.tasks.ListAllByKid(ctx, kidID)
	if err != nil {
		return err
	}

	var errs []error
	for i := range all {
		task := &all[i]
		if !task.IsRecurring || task.Date == nil || *task.Date >= cutoff {
			continue
		}
		if err := s.tasks.Delete(ctx, task.ID); err != nil {
			errs = append(errs, fmt.Errorf("sweep %s: %w", task.ID, err))
		}
	}
	return errors.Join(errs...)
}

// seriesKey groups tasks into series: by series ID when assigned, falling
// back to the legacy title-based grouping for older records.
func seriesKey(t *model.Task) string {
	if t.SeriesID != nil {
		return "id:" + *t.SeriesID
	}
	return "title:" + t.Title
}

func hasSeriesInstance(tasks []model.Task, template *model.Task) bool {
	for i := range tasks {
		if tasks[i].SameSeries(template) {
			return true
		}
	}
	return false
}

// instanceOf copies a template into a fresh, uncompleted instance for date.
func instanceOf(template *model.Task, date string) model.Task {
	d := date
	instance := model.Task{
		KidID:         template.KidID,
		Title:         template.Title,
		Description:   template.Description,
		Date:          &d,
		IsRecurring:   true,
		RecurringDays: template.RecurringDays,
		Points:        template.Points,
		Category:      template.Category,
	}
	if template.SeriesID != nil {
		sid := *template.SeriesID
		instance.SeriesID = &sid
	}
	return instance
}
