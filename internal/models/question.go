package models

import "time"

// Question difficulties.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// AssignedDayLayout formats the calendar day a question is scheduled for.
const AssignedDayLayout = "2006-01-02"

// Question is a coding question scheduled for a single calendar day.
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Slug         string    `gorm:"size:255;index" json:"slug"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Difficulty   string    `gorm:"size:16;not null;default:easy" json:"difficulty"`
	CreatedByID  uint      `gorm:"not null" json:"created_by_id"`
	CreatedBy    User      `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedDate time.Time `gorm:"index;not null" json:"assigned_date"`
	// AssignedDay is AssignedDate truncated to the reference timezone day; the
	// unique index is what keeps one question per day under concurrent writes.
	AssignedDay string    `gorm:"size:10;uniqueIndex;not null" json:"assigned_day"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsValidDifficulty reports whether difficulty is part of the known vocabulary.
func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}
