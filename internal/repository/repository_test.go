package repository

import (
	"context"
	"testing"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/pkg/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

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

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%5a%", containsPattern("5A"))
	assert.Equal(t, "%100!%%", containsPattern("100%"))
	assert.Equal(t, "%a!_b%", containsPattern("a_b"))
	assert.Equal(t, "%hi!!%", containsPattern("hi!"))
}

func TestQuestionRepository_CreateAndOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepository(db)

	test := &model.Test{Title: "Math", QuestionCount: 2, IsActive: true}
	require.NoError(t, NewTestRepository(db).Create(ctx, test))

	second := &model.Question{TestID: test.ID, Text: "second", Order: 2, Answers: []model.Answer{
		{Text: "no", Letter: "B"},
		{Text: "yes", Letter: "A", IsCorrect: true},
	}}
	first := &model.Question{TestID: test.ID, Text: "first", Order: 1, Answers: []model.Answer{
		{Text: "yes", Letter: "A", IsCorrect: true},
		{Text: "no", Letter: "B"},
	}}
	require.NoError(t, repo.CreateWithAnswers(ctx, second))
	require.NoError(t, repo.CreateWithAnswers(ctx, first))
	for _, a := range second.Answers {
		assert.Equal(t, second.ID, a.QuestionID)
		assert.NotZero(t, a.ID)
	}

	qs, err := repo.FindByTestID(ctx, test.ID)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "first", qs[0].Text)
	assert.Equal(t, "second", qs[1].Text)

	answers, err := NewAnswerRepository(db).FindByQuestionID(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "A", answers[0].Letter)

	found, err := repo.Search(ctx, QuestionFilter{Search: "SEC"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, second.ID, found[0].ID)
}

func TestQuestionRepository_DeleteRemovesDependents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepository(db)

	test := &model.Test{Title: "Math", QuestionCount: 1, IsActive: true}
	require.NoError(t, db.Create(test).Error)
	q := &model.Question{TestID: test.ID, Text: "q", Answers: []model.Answer{
		{Text: "yes", Letter: "A", IsCorrect: true},
		{Text: "no", Letter: "B"},
	}}
	require.NoError(t, repo.CreateWithAnswers(ctx, q))

	attempt := &model.StudentTest{StudentName: "Ann", StudentClass: "5A", TestID: test.ID, TotalQuestions: 1, StartedAt: time.Now()}
	require.NoError(t, NewStudentTestRepository(db).Create(ctx, attempt))
	require.NoError(t, NewStudentAnswerRepository(db).Create(ctx, &model.StudentAnswer{
		StudentTestID: attempt.ID, QuestionID: q.ID, SelectedAnswerID: q.Answers[0].ID, IsCorrect: true,
	}))

	require.NoError(t, repo.Delete(ctx, q.ID))

	var answers, picks int64
	require.NoError(t, db.Model(&model.Answer{}).Where("question_id = ?", q.ID).Count(&answers).Error)
	require.NoError(t, db.Model(&model.StudentAnswer{}).Where("question_id = ?", q.ID).Count(&picks).Error)
	assert.Zero(t, answers)
	assert.Zero(t, picks)

	assert.ErrorIs(t, repo.Delete(ctx, q.ID), gorm.ErrRecordNotFound)
}

func TestStudentTestRepository_HardDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewStudentTestRepository(db)

	test := &model.Test{Title: "Math", QuestionCount: 1, IsActive: true}
	require.NoError(t, db.Create(test).Error)
	attempt := &model.StudentTest{StudentName: "Ann", StudentClass: "5A", TestID: test.ID, StartedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, attempt))

	require.NoError(t, repo.HardDelete(ctx, attempt.ID))

	var n int64
	require.NoError(t, db.Unscoped().Model(&model.StudentTest{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestStudentTestRepository_ListSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `student_tests` WHERE LOWER\\(student_class\\) LIKE \\? ESCAPE '!' AND test_id = \\?").
		WithArgs("%5a%", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	started := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `student_tests` WHERE .* ORDER BY started_at desc, id desc LIMIT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_name", "student_class", "test_id", "score", "total_questions", "percentage", "started_at"}).
			AddRow(7, "Ann", "5A", 3, 1, 2, 50.0, started))
	mock.ExpectQuery("SELECT \\* FROM `tests` WHERE `tests`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "question_count", "is_active"}).
			AddRow(3, "Math", 2, true))

	items, total, err := NewStudentTestRepository(db).List(context.Background(),
		StudentTestFilter{StudentClass: "5A", TestID: 3}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Ann", items[0].StudentName)
	assert.Equal(t, "Math", items[0].Test.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
