package service

import (
	"context"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
)

// 服务层只依赖以下接口，gorm 实现位于 internal/repository

type TestRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	FindActiveByID(ctx context.Context, id uint) (*model.Test, error)
	ListActive(ctx context.Context) ([]model.Test, error)
	ListAll(ctx context.Context) ([]model.Test, error)
	Search(ctx context.Context, filter repository.TestFilter) ([]model.Test, error)
	Create(ctx context.Context, test *model.Test) error
	Update(ctx context.Context, test *model.Test) error
	Delete(ctx context.Context, id uint) error
}

type QuestionRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByIDWithAnswers(ctx context.Context, id uint) (*model.Question, error)
	FindByTestID(ctx context.Context, testID uint) ([]model.Question, error)
	Search(ctx context.Context, filter repository.QuestionFilter) ([]model.Question, error)
	CreateWithAnswers(ctx context.Context, q *model.Question) error
	UpdateWithAnswers(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uint) error
}

type AnswerRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Answer, error)
	FindByQuestionID(ctx context.Context, questionID uint) ([]model.Answer, error)
}

type StudentTestRepository interface {
	Create(ctx context.Context, attempt *model.StudentTest) error
	Save(ctx context.Context, attempt *model.StudentTest) error
	FindByID(ctx context.Context, id uint) (*model.StudentTest, error)
	HardDelete(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter repository.StudentTestFilter, offset, limit int) ([]model.StudentTest, int64, error)
}

type StudentAnswerRepository interface {
	Create(ctx context.Context, answer *model.StudentAnswer) error
	FindByStudentTestID(ctx context.Context, studentTestID uint) ([]model.StudentAnswer, error)
}

var (
	_ TestRepository          = (*repository.TestRepository)(nil)
	_ QuestionRepository      = (*repository.QuestionRepository)(nil)
	_ AnswerRepository        = (*repository.AnswerRepository)(nil)
	_ StudentTestRepository   = (*repository.StudentTestRepository)(nil)
	_ StudentAnswerRepository = (*repository.StudentAnswerRepository)(nil)
)
