package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/session"
	"quiz_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSession = "6f1c2b1e-5a3d-4a53-9d0e-2f3b8c7a9e10"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type quizFixture struct {
	db    *gorm.DB
	store *session.MemoryStore
	svc   *QuizService
	now   time.Time
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	db := newTestDB(t)
	store := session.NewMemoryStore(time.Hour)
	svc := NewQuizService(
		repository.NewTestRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewStudentTestRepository(db),
		repository.NewStudentAnswerRepository(db),
		store,
		NewRandomizer(1),
	)
	f := &quizFixture{db: db, store: store, svc: svc, now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc.Now = func() time.Time { return f.now }
	return f
}

// seedTest 创建试卷及 questions 道题，每题 A 正确、B 错误
func seedTest(t *testing.T, db *gorm.DB, title string, questionCount, questions int) *model.Test {
	t.Helper()
	test := &model.Test{Title: title, QuestionCount: questionCount, IsActive: true}
	require.NoError(t, db.Create(test).Error)

	for i := 0; i < questions; i++ {
		q := &model.Question{
			TestID: test.ID,
			Text:   fmt.Sprintf("%s question %d", title, i+1),
			Order:  i + 1,
			Answers: []model.Answer{
				{Text: "right", IsCorrect: true, Letter: "A"},
				{Text: "wrong", Letter: "B"},
			},
		}
		require.NoError(t, db.Create(q).Error)
	}
	return test
}

func answerFor(t *testing.T, db *gorm.DB, questionID uint, correct bool) model.Answer {
	t.Helper()
	var a model.Answer
	require.NoError(t, db.Where("question_id = ? AND is_correct = ?", questionID, correct).First(&a).Error)
	return a
}

func sampleOf(t *testing.T, store session.Store, attemptID uint) []uint {
	t.Helper()
	ids, err := store.LoadSample(context.Background(), testSession, attemptID)
	require.NoError(t, err)
	return ids
}
