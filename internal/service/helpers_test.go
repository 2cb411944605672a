package service

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/database"
	"github.com/noah-isme/daily-coding-api/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), database.Options())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func createUser(t *testing.T, db *gorm.DB, name, role string) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createQuestion(t *testing.T, db *gorm.DB, author models.User, title string, assigned time.Time) models.Question {
	t.Helper()
	question := models.Question{
		Title:        title,
		Slug:         strings.ToLower(title),
		Description:  title + " description",
		Difficulty:   models.DifficultyMedium,
		CreatedByID:  author.ID,
		AssignedDate: assigned.UTC(),
		AssignedDay:  assigned.UTC().Format(models.AssignedDayLayout),
	}
	require.NoError(t, db.Omit("CreatedBy").Create(&question).Error)
	return question
}

func createSubmission(t *testing.T, db *gorm.DB, student models.User, question models.Question, status string, at time.Time) models.Submission {
	t.Helper()
	submission := models.Submission{
		StudentID:   student.ID,
		QuestionID:  question.ID,
		Code:        "print('hi')",
		Status:      status,
		SubmittedAt: at.UTC(),
	}
	require.NoError(t, db.Omit("Student", "Question").Create(&submission).Error)
	return submission
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
