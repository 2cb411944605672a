package models

import "time"

const (
	// SubmissionStatusPending indicates the answer has not been reviewed yet.
	SubmissionStatusPending = "pending"
	// SubmissionStatusAccepted indicates the answer was accepted.
	SubmissionStatusAccepted = "accepted"
	// SubmissionStatusRejected indicates the answer was rejected.
	SubmissionStatusRejected = "rejected"
)

// Submission is an immutable answer recorded by a student for a question.
type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"index;not null" json:"student_id"`
	QuestionID  uint      `gorm:"index;not null" json:"question_id"`
	Code        string    `gorm:"type:text;not null" json:"code"`
	Status      string    `gorm:"size:16;not null;default:pending" json:"status"`
	SubmittedAt time.Time `gorm:"index;not null" json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	Student     User      `gorm:"foreignKey:StudentID" json:"-"`
	Question    Question  `gorm:"foreignKey:QuestionID" json:"-"`
}

// IsValidSubmissionStatus reports whether status is part of the grading vocabulary.
func IsValidSubmissionStatus(status string) bool {
	switch status {
	case SubmissionStatusPending, SubmissionStatusAccepted, SubmissionStatusRejected:
		return true
	default:
		return false
	}
}
