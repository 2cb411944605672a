package dto

import (
	"time"

	"github.com/noah-isme/daily-coding-api/internal/models"
)

// SubmitAnswerRequest is the payload students post to record an answer.
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"questionId" validate:"required,gt=0"`
	Code       string `json:"code" validate:"required"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=pending accepted rejected"`
}

// QuestionLite summarizes the question a submission answers.
type QuestionLite struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Difficulty   string    `json:"difficulty"`
	AssignedDate time.Time `json:"assigned_date"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID          uint          `json:"id"`
	StudentID   uint          `json:"student_id"`
	QuestionID  uint          `json:"question_id"`
	Code        string        `json:"code"`
	Status      string        `json:"status"`
	SubmittedAt time.Time     `json:"submitted_at"`
	Question    *QuestionLite `json:"question,omitempty"`
}

// SubmissionSummary tallies submissions per status. Accepted+Rejected+Pending always equals Total.
type SubmissionSummary struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		QuestionID:  model.QuestionID,
		Code:        model.Code,
		Status:      model.Status,
		SubmittedAt: model.SubmittedAt,
	}

	if model.Question.ID != 0 {
		response.Question = &QuestionLite{
			ID:           model.Question.ID,
			Title:        model.Question.Title,
			Difficulty:   model.Question.Difficulty,
			AssignedDate: model.Question.AssignedDate,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(models []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(models))
	for _, submission := range models {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
