package repository

import (
	"context"

	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// TestFilter 管理端试卷列表筛选条件
type TestFilter struct {
	Search string
	Active *bool
}

func (r *TestRepository) Create(ctx context.Context, test *model.Test) error {
	return r.DB.WithContext(ctx).Create(test).Error
}

func (r *TestRepository) Update(ctx context.Context, test *model.Test) error {
	return r.DB.WithContext(ctx).Omit("Questions").Save(test).Error
}

func (r *TestRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) FindActiveByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) ListActive(ctx context.Context) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at desc, id desc").
		Find(&tests).Error
	return tests, err
}

func (r *TestRepository) ListAll(ctx context.Context) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).Order("created_at desc, id desc").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) Search(ctx context.Context, filter TestFilter) ([]model.Test, error) {
	query := r.DB.WithContext(ctx).Model(&model.Test{})
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	var tests []model.Test
	err := query.Order("created_at desc, id desc").Find(&tests).Error
	return tests, err
}

// Delete 级联删除试卷、题目、选项以及相关答题记录
func (r *TestRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("test_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		var attemptIDs []uint
		if err := tx.Model(&model.StudentTest{}).Where("test_id = ?", id).Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}

		if len(attemptIDs) > 0 {
			if err := tx.Where("student_test_id IN ?", attemptIDs).Delete(&model.StudentAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", attemptIDs).Delete(&model.StudentTest{}).Error; err != nil {
				return err
			}
		}

		if len(questionIDs) > 0 {
			if err := deleteQuestions(tx, questionIDs); err != nil {
				return err
			}
		}

		res := tx.Delete(&model.Test{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func deleteQuestions(tx *gorm.DB, questionIDs []uint) error {
	if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.StudentAnswer{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", questionIDs).Delete(&model.Question{}).Error
}
