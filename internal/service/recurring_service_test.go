package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stanfish/kids-todo/internal/model"
	"github.com/stanfish/kids-todo/internal/testutil"
)

func fixedNow(date string) func() time.Time {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func strptr(s string) *string { return &s }

func newTemplate(kidID, title string, date string, days []int) *model.Task {
	seriesID := "series-" + title
	return &model.Task{
		ID:            "tpl-" + title,
		KidID:         kidID,
		Title:         title,
		Date:          strptr(date),
		IsRecurring:   true,
		RecurringDays: days,
		SeriesID:      &seriesID,
	}
}

func datesOf(tasks []model.Task) map[string]int {
	out := make(map[string]int)
	for _, t := range tasks {
		if t.Date != nil {
			out[*t.Date]++
		}
	}
	return out
}

func TestMaterializeDaily(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-01")
	ctx := context.Background()

	template := newTemplate("kid-1", "Brush teeth", "2024-01-01", nil)
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatalf("create template: %v", err)
	}

	if err := svc.Materialize(ctx, template, "2024-01-01"); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	all, err := tasks.ListAllByKid(ctx, "kid-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Template plus one instance per day for 2024-01-02..2024-01-31.
	if len(all) != 31 {
		t.Fatalf("expected 31 tasks, got %d", len(all))
	}
	counts := datesOf(all)
	day := "2024-01-02"
	for i := 0; i < 30; i++ {
		if counts[day] != 1 {
			t.Errorf("expected exactly one instance on %s, got %d", day, counts[day])
		}
		var err error
		if day, err = addDaysForTest(day, 1); err != nil {
			t.Fatal(err)
		}
	}
	for _, task := range all {
		if task.ID == template.ID {
			continue
		}
		if task.IsCompleted || task.CompletedAt != nil {
			t.Errorf("instance on %s must start uncompleted", *task.Date)
		}
		if task.SeriesID == nil || *task.SeriesID != *template.SeriesID {
			t.Errorf("instance on %s must inherit the series id", *task.Date)
		}
	}
}

func TestMaterializeWeekdays(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-01")
	ctx := context.Background()

	// Mon/Wed/Fri, anchored on Monday 2024-01-01.
	template := newTemplate("kid-1", "Piano practice", "2024-01-01", []int{1, 3, 5})
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatalf("create template: %v", err)
	}

	if err := svc.Materialize(ctx, template, "2024-01-01"); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	all, _ := tasks.ListAllByKid(ctx, "kid-1")
	counts := datesOf(all)
	delete(counts, "2024-01-01") // the template itself

	want := []string{
		"2024-01-03", "2024-01-05", "2024-01-08", "2024-01-10", "2024-01-12",
		"2024-01-15", "2024-01-17", "2024-01-19", "2024-01-22", "2024-01-24",
		"2024-01-26", "2024-01-29", "2024-01-31",
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d instance dates, got %d: %v", len(want), len(counts), counts)
	}
	for _, d := range want {
		if counts[d] != 1 {
			t.Errorf("expected one instance on %s, got %d", d, counts[d])
		}
	}
}

func TestMaterializeIdempotent(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-01")
	ctx := context.Background()

	template := newTemplate("kid-1", "Brush teeth", "2024-01-01", nil)
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatal(err)
	}

	if err := svc.Materialize(ctx, template, "2024-01-01"); err != nil {
		t.Fatalf("first materialize: %v", err)
	}
	first := len(tasks.All())

	if err := svc.Materialize(ctx, template, "2024-01-01"); err != nil {
		t.Fatalf("second materialize: %v", err)
	}
	if got := len(tasks.All()); got != first {
		t.Errorf("second run created duplicates: %d -> %d tasks", first, got)
	}
}

func TestMaterializeSkipsNonRecurring(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	ctx := context.Background()

	oneOff := &model.Task{ID: "t1", KidID: "kid-1", Title: "Dentist"}
	if err := svc.Materialize(ctx, oneOff, "2024-01-01"); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if got := len(tasks.All()); got != 0 {
		t.Errorf("non-recurring template materialized %d instances", got)
	}
}

func TestMaterializePartialBatchKeepsSuccesses(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	failure := errors.New("write refused")
	tasks.InstanceErrByDate["2024-01-05"] = failure

	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-01")
	ctx := context.Background()

	template := newTemplate("kid-1", "Brush teeth", "2024-01-01", nil)
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatal(err)
	}

	err := svc.Materialize(ctx, template, "2024-01-01")
	if !errors.Is(err, failure) {
		t.Fatalf("expected aggregate error containing the write failure, got %v", err)
	}

	counts := datesOf(tasks.All())
	if counts["2024-01-05"] != 0 {
		t.Error("failed slot must not exist")
	}
	if counts["2024-01-04"] != 1 || counts["2024-01-06"] != 1 {
		t.Error("writes around the failed slot must persist")
	}
}

func TestEnsureExistsNoOpForTodayAndPast(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-15")
	ctx := context.Background()

	template := newTemplate("kid-1", "Brush teeth", "2024-01-10", nil)
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatal(err)
	}

	for _, date := range []string{"2024-01-15", "2024-01-14", "2023-12-01"} {
		if err := svc.EnsureExists(ctx, "kid-1", date); err != nil {
			t.Fatalf("EnsureExists(%s): %v", date, err)
		}
	}
	if got := len(tasks.All()); got != 1 {
		t.Errorf("expected no new tasks for today/past targets, got %d total", got)
	}
}

func TestEnsureExistsCreatesMissingInstance(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-15")
	ctx := context.Background()

	template := newTemplate("kid-1", "Brush teeth", "2024-01-15", nil)
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatal(err)
	}

	if err := svc.EnsureExists(ctx, "kid-1", "2024-02-10"); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}

	onDate, _ := tasks.ListByKidAndDate(ctx, "kid-1", "2024-02-10")
	if len(onDate) != 1 {
		t.Fatalf("expected one instance on target date, got %d", len(onDate))
	}
	if onDate[0].Title != "Brush teeth" || !onDate[0].IsRecurring {
		t.Errorf("unexpected instance: %+v", onDate[0])
	}

	// Second call must not add another.
	if err := svc.EnsureExists(ctx, "kid-1", "2024-02-10"); err != nil {
		t.Fatalf("EnsureExists again: %v", err)
	}
	onDate, _ = tasks.ListByKidAndDate(ctx, "kid-1", "2024-02-10")
	if len(onDate) != 1 {
		t.Errorf("expected still one instance, got %d", len(onDate))
	}
}

func TestEnsureExistsLatestInstanceIsTemplate(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-15")
	ctx := context.Background()

	// Legacy records without series ids: grouping falls back to the title.
	older := &model.Task{
		ID: "t-old", KidID: "kid-1", Title: "Brush teeth",
		Description: "old wording", Date: strptr("2024-01-10"), IsRecurring: true,
	}
	newer := &model.Task{
		ID: "t-new", KidID: "kid-1", Title: "Brush teeth",
		Description: "new wording", Date: strptr("2024-01-14"), IsRecurring: true,
	}
	for _, task := range []*model.Task{older, newer} {
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.EnsureExists(ctx, "kid-1", "2024-01-20"); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}

	onDate, _ := tasks.ListByKidAndDate(ctx, "kid-1", "2024-01-20")
	if len(onDate) != 1 {
		t.Fatalf("expected one instance, got %d", len(onDate))
	}
	if onDate[0].Description != "new wording" {
		t.Errorf("expected the later-dated instance to act as template, got description %q", onDate[0].Description)
	}
}

func TestEnsureExistsRespectsWeekdays(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-01")
	ctx := context.Background()

	// Saturdays only.
	template := newTemplate("kid-1", "Clean room", "2024-01-06", []int{6})
	if err := tasks.Create(ctx, template); err != nil {
		t.Fatal(err)
	}

	// 2024-01-10 is a Wednesday: no instance expected.
	if err := svc.EnsureExists(ctx, "kid-1", "2024-01-10"); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	onDate, _ := tasks.ListByKidAndDate(ctx, "kid-1", "2024-01-10")
	if len(onDate) != 0 {
		t.Errorf("expected no instance on a non-matching weekday, got %d", len(onDate))
	}

	// 2024-01-13 is a Saturday.
	if err := svc.EnsureExists(ctx, "kid-1", "2024-01-13"); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	onDate, _ = tasks.ListByKidAndDate(ctx, "kid-1", "2024-01-13")
	if len(onDate) != 1 {
		t.Errorf("expected one instance on Saturday, got %d", len(onDate))
	}
}

func TestEnsureExistsBlockedBySameTitledTask(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-01-15")
	ctx := context.Background()

	template := newTemplate("kid-1", "Brush teeth", "2024-01-15", nil)
	manual := &model.Task{
		ID: "manual", KidID: "kid-1", Title: "Brush teeth",
		Date: strptr("2024-01-20"), IsRecurring: false,
	}
	for _, task := range []*model.Task{template, manual} {
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	// A same-titled one-off already fills the date.
	if err := svc.EnsureExists(ctx, "kid-1", "2024-01-20"); err != nil {
		t.Fatalf("EnsureExists: %v", err)
	}
	onDate, _ := tasks.ListByKidAndDate(ctx, "kid-1", "2024-01-20")
	if len(onDate) != 1 {
		t.Errorf("expected the manual task to block the instance, got %d tasks", len(onDate))
	}
}

func TestSweepRetention(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-02-15")
	ctx := context.Background()

	stale := &model.Task{ID: "stale", KidID: "kid-1", Title: "Brush teeth",
		Date: strptr("2024-01-01"), IsRecurring: true} // 46 days old
	fresh := &model.Task{ID: "fresh", KidID: "kid-1", Title: "Brush teeth",
		Date: strptr("2024-01-20"), IsRecurring: true} // 26 days old
	oneOff := &model.Task{ID: "one-off", KidID: "kid-1", Title: "Dentist",
		Date: strptr("2023-12-01"), IsRecurring: false}
	general := &model.Task{ID: "general", KidID: "kid-1", Title: "Read a book",
		IsRecurring: true}
	for _, task := range []*model.Task{stale, fresh, oneOff, general} {
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.Sweep(ctx, "kid-1"); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	if _, err := tasks.Get(ctx, "stale"); err == nil {
		t.Error("stale recurring instance must be swept")
	}
	for _, id := range []string{"fresh", "one-off", "general"} {
		if _, err := tasks.Get(ctx, id); err != nil {
			t.Errorf("task %s must survive the sweep: %v", id, err)
		}
	}
}

func TestSweepAggregatesDeleteFailures(t *testing.T) {
	tasks := testutil.NewFakeTasks()
	failure := errors.New("delete refused")
	tasks.DeleteErrByTitle["Brush teeth"] = failure

	svc := NewRecurringService(tasks)
	svc.now = fixedNow("2024-02-15")
	ctx := context.Background()

	undeletable := &model.Task{ID: "a", KidID: "kid-1", Title: "Brush teeth",
		Date: strptr("2024-01-01"), IsRecurring: true}
	deletable := &model.Task{ID: "b", KidID: "kid-1", Title: "Make bed",
		Date: strptr("2024-01-02"), IsRecurring: true}
	for _, task := range []*model.Task{undeletable, deletable} {
		if err := tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	err := svc.Sweep(ctx, "kid-1")
	if !errors.Is(err, failure) {
		t.Fatalf("expected aggregate error, got %v", err)
	}
	if _, err := tasks.Get(ctx, "b"); err == nil {
		t.Error("the deletable task must still be swept despite the other failure")
	}
}

func addDaysForTest(date string, n int) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format("2006-01-02"), nil
}
