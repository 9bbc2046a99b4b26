// Package testutil provides in-memory implementations of the store
// interfaces for testing. The fakes honor the adapter contracts the real
// repositories do: completion timestamps paired with the completion flag,
// occupied series slots skipped on instance creation, and the documented
// list orderings.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/store"
)

// FakeTasks is an in-memory store.TaskStore.
type FakeTasks struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*model.Task
	order []string // creation order

	// Error injection
	ListErr           error
	CreateErr         error
	UpdateErr         error
	DeleteErr         error
	InstanceErrByDate map[string]error // date -> error for CreateInstances
	DeleteErrByTitle  map[string]error // title -> error for Delete
}

var _ store.TaskStore = (*FakeTasks)(nil)

func NewFakeTasks() *FakeTasks {
	return &FakeTasks{
		tasks:             make(map[string]*model.Task),
		InstanceErrByDate: make(map[string]error),
		DeleteErrByTitle:  make(map[string]error),
	}
}

// clock gives every record a distinct, increasing creation time.
func (f *FakeTasks) clock() time.Time {
	f.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
}

func (f *FakeTasks) snapshot(filter func(*model.Task) bool) []model.Task {
	var out []model.Task
	for _, id := range f.order {
		t, ok := f.tasks[id]
		if !ok || !filter(t) {
			continue
		}
		out = append(out, *t)
	}
	return out
}

func (f *FakeTasks) ListByKidAndDate(ctx context.Context, kidID, date string) ([]model.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(t *model.Task) bool {
		return t.KidID == kidID && t.Date != nil && *t.Date == date
	}), nil
}

func (f *FakeTasks) ListUndatedByKid(ctx context.Context, kidID string) ([]model.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(t *model.Task) bool {
		return t.KidID == kidID && t.Date == nil
	}), nil
}

func (f *FakeTasks) ListAllByKid(ctx context.Context, kidID string) ([]model.Task, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.snapshot(func(t *model.Task) bool { return t.KidID == kidID })
	// Latest date first, undated last, creation order within a date.
	sort.SliceStable(out, func(i, j int) bool {
		switch {
		case out[i].Date == nil && out[j].Date == nil:
			return false
		case out[i].Date == nil:
			return false
		case out[j].Date == nil:
			return true
		default:
			return *out[i].Date > *out[j].Date
		}
	})
	return out, nil
}

func (f *FakeTasks) Get(ctx context.Context, id string) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *FakeTasks) Create(ctx context.Context, task *model.Task) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insert(task)
	return nil
}

func (f *FakeTasks) insert(task *model.Task) {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := f.clock()
	task.CreatedAt = now
	task.UpdatedAt = now
	cp := *task
	f.tasks[task.ID] = &cp
	f.order = append(f.order, task.ID)
}

// slotTaken mirrors the partial unique index on (kid_id, title, date) for
// recurring dated tasks.
func (f *FakeTasks) slotTaken(task *model.Task) bool {
	if !task.IsRecurring || task.Date == nil {
		return false
	}
	for _, existing := range f.tasks {
		if existing.IsRecurring && existing.KidID == task.KidID &&
			existing.Title == task.Title &&
			existing.Date != nil && *existing.Date == *task.Date {
			return true
		}
	}
	return false
}

func (f *FakeTasks) CreateInstances(ctx context.Context, tasks []model.Task) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := 0
	var errs []error
	for i := range tasks {
		task := tasks[i]
		if task.Date != nil {
			if err := f.InstanceErrByDate[*task.Date]; err != nil {
				errs = append(errs, err)
				continue
			}
		}
		if f.slotTaken(&task) {
			continue
		}
		f.insert(&task)
		created++
	}
	return created, errors.Join(errs...)
}

func (f *FakeTasks) Update(ctx context.Context, id string, upd store.TaskUpdate) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.IsCompleted != nil {
		t.IsCompleted = *upd.IsCompleted
		if *upd.IsCompleted {
			now := time.Now()
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
	}
	if upd.RecurringDays != nil {
		t.RecurringDays = append(t.RecurringDays[:0:0], *upd.RecurringDays...)
	}
	if upd.Points != nil {
		t.Points = *upd.Points
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	t.UpdatedAt = f.clock()
	return nil
}

func (f *FakeTasks) Delete(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tasks[id]; ok {
		if err := f.DeleteErrByTitle[t.Title]; err != nil {
			return err
		}
	}
	delete(f.tasks, id)
	return nil
}

func (f *FakeTasks) DeleteSeries(ctx context.Context, kidID, title string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tasks {
		if t.KidID == kidID && t.Title == title && t.IsRecurring {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *FakeTasks) DeleteByKid(ctx context.Context, kidID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tasks {
		if t.KidID == kidID {
			delete(f.tasks, id)
		}
	}
	return nil
}

// All returns every stored task, for assertions.
func (f *FakeTasks) All() []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot(func(*model.Task) bool { return true })
}

// FakeKids is an in-memory store.KidStore.
type FakeKids struct {
	mu    sync.Mutex
	seq   int
	kids  map[string]*model.Kid
	order []string

	ListErr   error
	CreateErr error
	DeleteErr error
}

var _ store.KidStore = (*FakeKids)(nil)

func NewFakeKids() *FakeKids {
	return &FakeKids{kids: make(map[string]*model.Kid)}
}

func (f *FakeKids) List(ctx context.Context) ([]model.Kid, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// Most recently created first.
	var out []model.Kid
	for i := len(f.order) - 1; i >= 0; i-- {
		if k, ok := f.kids[f.order[i]]; ok {
			out = append(out, *k)
		}
	}
	return out, nil
}

func (f *FakeKids) Get(ctx context.Context, id string) (*model.Kid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k, ok := f.kids[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *k
	return &cp, nil
}

func (f *FakeKids) Create(ctx context.Context, kid *model.Kid) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if kid.ID == "" {
		kid.ID = uuid.New().String()
	}
	if kid.Avatar == "" {
		kid.Avatar = model.DefaultAvatar
	}
	f.seq++
	kid.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Second)
	kid.UpdatedAt = kid.CreatedAt
	cp := *kid
	f.kids[kid.ID] = &cp
	f.order = append(f.order, kid.ID)
	return nil
}

func (f *FakeKids) Update(ctx context.Context, id string, upd store.KidUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k, ok := f.kids[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Name != nil {
		k.Name = *upd.Name
	}
	if upd.Avatar != nil {
		k.Avatar = *upd.Avatar
	}
	return nil
}

func (f *FakeKids) Delete(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.kids, id)
	return nil
}

// FakeAchievements is an in-memory store.AchievementStore.
type FakeAchievements struct {
	mu           sync.Mutex
	achievements map[string]*model.Achievement

	CreateErr error
	DeleteErr error
}

var _ store.AchievementStore = (*FakeAchievements)(nil)

func NewFakeAchievements() *FakeAchievements {
	return &FakeAchievements{achievements: make(map[string]*model.Achievement)}
}

func (f *FakeAchievements) ListByKid(ctx context.Context, kidID string) ([]model.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Achievement
	for _, a := range f.achievements {
		if a.KidID == kidID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (f *FakeAchievements) Create(ctx context.Context, a *model.Achievement) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.EarnedAt.IsZero() {
		a.EarnedAt = time.Now()
	}
	cp := *a
	f.achievements[a.ID] = &cp
	return nil
}

func (f *FakeAchievements) DeleteByKid(ctx context.Context, kidID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, a := range f.achievements {
		if a.KidID == kidID {
			delete(f.achievements, id)
		}
	}
	return nil
}

// Count returns how many achievements are stored, for cascade assertions.
func (f *FakeAchievements) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.achievements)
}
