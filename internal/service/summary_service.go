package service

import (
	"context"
	"fmt"

	"github.com/stanfish/kids-todo/internal/recur"
	"github.com/stanfish/kids-todo/internal/store"
)

// DaySummary reports how a kid's day is going, letting the UI decide things
// like showing the all-done celebration.
type DaySummary struct {
	Date         string `json:"date"`
	Total        int    `json:"total"`
	Completed    int    `json:"completed"`
	Points       int    `json:"points"`
	AllCompleted bool   `json:"allCompleted"`
}

// SummaryService aggregates a day's tasks into a summary.
type SummaryService struct {
	tasks store.TaskStore
}

func NewSummaryService(tasks store.TaskStore) *SummaryService {
	return &SummaryService{tasks: tasks}
}

func (s *SummaryService) DaySummary(ctx context.Context, kidID, date string) (*DaySummary, error) {
	if _, err := recur.Parse(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	tasks, err := s.tasks.ListByKidAndDate(ctx, kidID, date)
	if err != nil {
		return nil, err
	}

	summary := DaySummary{Date: date, Total: len(tasks)}
	for i := range tasks {
		if tasks[i].IsCompleted {
			summary.Completed++
			summary.Points += tasks[i].Points
		}
	}
	summary.AllCompleted = summary.Total > 0 && summary.Completed == summary.Total
	return &summary, nil
}
