package model

import "time"

// AchievementExcellentDay is earned when every task on a day gets completed.
const AchievementExcellentDay = "excellent_day"

// Achievement records a badge a kid earned on a given day.
type Achievement struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	KidID    string    `gorm:"index" json:"kidId"`
	Date     string    `json:"date"` // YYYY-MM-DD
	Type     string    `json:"type"`
	EarnedAt time.Time `json:"earnedAt"`
}
