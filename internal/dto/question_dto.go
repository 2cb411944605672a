package dto

import (
	"time"

	"github.com/noah-isme/daily-coding-api/internal/models"
)

// QuestionCreateRequest describes the payload used to schedule a question.
// AssignedDate accepts RFC3339 or a bare YYYY-MM-DD day; it defaults to now.
type QuestionCreateRequest struct {
	Title        string `json:"title" validate:"required,max=255"`
	Description  string `json:"description" validate:"required"`
	Difficulty   string `json:"difficulty" validate:"required"`
	AssignedDate string `json:"assigned_date,omitempty"`
}

// QuestionUpdateRequest carries the optional fields of a question update.
type QuestionUpdateRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description" validate:"omitempty,min=1"`
	Difficulty   *string `json:"difficulty"`
	AssignedDate *string `json:"assigned_date"`
}

// AuthorLite summarizes the author of a question.
type AuthorLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// QuestionResponse is returned to API clients when viewing questions.
type QuestionResponse struct {
	ID           uint        `json:"id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Description  string      `json:"description"`
	Difficulty   string      `json:"difficulty"`
	CreatedBy    *AuthorLite `json:"created_by,omitempty"`
	AssignedDate time.Time   `json:"assigned_date"`
	AssignedDay  string      `json:"assigned_day"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	response := QuestionResponse{
		ID:           model.ID,
		Title:        model.Title,
		Slug:         model.Slug,
		Description:  model.Description,
		Difficulty:   model.Difficulty,
		AssignedDate: model.AssignedDate,
		AssignedDay:  model.AssignedDay,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.CreatedBy.ID != 0 {
		response.CreatedBy = &AuthorLite{ID: model.CreatedBy.ID, Name: model.CreatedBy.Name}
	}

	return response
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}
	return responses
}
