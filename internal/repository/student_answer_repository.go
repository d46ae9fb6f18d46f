package repository

import (
	"context"

	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type StudentAnswerRepository struct {
	DB *gorm.DB
}

func NewStudentAnswerRepository(db *gorm.DB) *StudentAnswerRepository {
	return &StudentAnswerRepository{DB: db}
}

func (r *StudentAnswerRepository) Create(ctx context.Context, answer *model.StudentAnswer) error {
	return r.DB.WithContext(ctx).Omit("Question", "SelectedAnswer").Create(answer).Error
}

// FindByStudentTestID 按提交顺序返回答题明细，并带出题目与所选选项
func (r *StudentAnswerRepository) FindByStudentTestID(ctx context.Context, studentTestID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.DB.WithContext(ctx).
		Preload("Question").
		Preload("SelectedAnswer", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("student_test_id = ?", studentTestID).
		Order("id asc").
		Find(&answers).Error
	return answers, err
}

