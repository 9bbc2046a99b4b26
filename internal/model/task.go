package model

import (
	"time"

	"gorm.io/datatypes"
)

// Task represents a single item on a kid's list, either created manually or
// materialized from a recurring series.
//
// Date is nil for general (undated) tasks and otherwise a YYYY-MM-DD string;
// query logic partitions tasks into dated vs general purely by whether it is
// set. CompletedAt is present if and only if IsCompleted is true.
type Task struct {
	ID            string                   `gorm:"primaryKey" json:"id"`
	KidID         string                   `gorm:"index" json:"kidId"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description,omitempty"`
	IsCompleted   bool                     `gorm:"default:false" json:"isCompleted"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
	Date          *string                  `gorm:"index" json:"date,omitempty"`
	IsRecurring   bool                     `gorm:"default:false" json:"isRecurring"`
	RecurringDays datatypes.JSONSlice[int] `json:"recurringDays,omitempty"`
	SeriesID      *string                  `gorm:"index" json:"seriesId,omitempty"`
	Points        int                      `json:"points,omitempty"`
	Category      string                   `json:"category,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

// SameSeries reports whether other belongs to the same recurring series as t.
// Instances created since series IDs were introduced share a stable UUID;
// older records fall back to the title-based grouping.
func (t *Task) SameSeries(other *Task) bool {
	if !t.IsRecurring || !other.IsRecurring {
		return false
	}
	if t.SeriesID != nil && other.SeriesID != nil {
		return *t.SeriesID == *other.SeriesID
	}
	return t.Title == other.Title
}
