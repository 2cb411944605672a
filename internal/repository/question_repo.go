package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/models"
)

// QuestionRepository defines persistence operations for daily questions.
type QuestionRepository interface {
	List(ctx context.Context) ([]models.Question, error)
	GetByID(ctx context.Context, id uint) (models.Question, error)
	// FindAssignedBetween returns the question whose assigned date lies in [start, end).
	FindAssignedBetween(ctx context.Context, start, end time.Time) (models.Question, error)
	// FindLatestBefore returns the most recently assigned question strictly before cutoff.
	FindLatestBefore(ctx context.Context, cutoff time.Time) (models.Question, error)
	Create(ctx context.Context, question *models.Question) error
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Question{}).Preload("CreatedBy")
}

func (r *questionRepository) List(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	if err := r.baseQuery(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.baseQuery(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) FindAssignedBetween(ctx context.Context, start, end time.Time) (models.Question, error) {
	var question models.Question
	if err := r.baseQuery(ctx).
		Where("assigned_date >= ? AND assigned_date < ?", start.UTC(), end.UTC()).
		Order("assigned_date DESC").
		Order("created_at DESC").
		Order("id DESC").
		First(&question).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) FindLatestBefore(ctx context.Context, cutoff time.Time) (models.Question, error) {
	var question models.Question
	if err := r.baseQuery(ctx).
		Where("assigned_date < ?", cutoff.UTC()).
		Order("assigned_date DESC").
		Order("created_at DESC").
		Order("id DESC").
		First(&question).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Omit("CreatedBy").Create(question).Error
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	result := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", question.ID).
		Select("title", "slug", "description", "difficulty", "assigned_date", "assigned_day", "updated_at").
		Updates(question)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
