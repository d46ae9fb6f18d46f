package repository

import (
	"context"

	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

type QuestionFilter struct {
	TestID uint
	Search string
}

func orderAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("letter asc, id asc")
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByIDWithAnswers(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Preload("Answers", orderAnswers).First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByTestID(ctx context.Context, testID uint) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("display_order asc, id asc").
		Find(&qs).Error
	return qs, err
}


func (r *QuestionRepository) Search(ctx context.Context, filter QuestionFilter) ([]model.Question, error) {
	query := r.DB.WithContext(ctx).Model(&model.Question{})
	if filter.TestID != 0 {
		query = query.Where("test_id = ?", filter.TestID)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(text) LIKE ? ESCAPE '!'", containsPattern(filter.Search))
	}

	var qs []model.Question
	err := query.Order("test_id asc, display_order asc, id asc").Find(&qs).Error
	return qs, err
}

// CreateWithAnswers 在一个事务中写入题目及其选项
func (r *QuestionRepository) CreateWithAnswers(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := q.Answers
		q.Answers = nil
		if err := tx.Create(q).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].QuestionID = q.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		q.Answers = answers
		return nil
	})
}

// UpdateWithAnswers 更新题目并整体替换选项
func (r *QuestionRepository) UpdateWithAnswers(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := q.Answers
		q.Answers = nil
		if err := tx.Omit("Answers").Save(q).Error; err != nil {
			return err
		}

		keep := make([]uint, 0, len(answers))
		for i := range answers {
			answers[i].QuestionID = q.ID
			if answers[i].ID != 0 {
				keep = append(keep, answers[i].ID)
			}
		}

		stale := tx.Where("question_id = ?", q.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&model.Answer{}).Error; err != nil {
			return err
		}

		for i := range answers {
			a := &answers[i]
			if a.ID == 0 {
				if err := tx.Create(a).Error; err != nil {
					return err
				}
				continue
			}
			err := tx.Model(&model.Answer{}).
				Where("id = ? AND question_id = ?", a.ID, q.ID).
				Updates(map[string]interface{}{
					"text":       a.Text,
					"is_correct": a.IsCorrect,
					"letter":     a.Letter,
				}).Error
			if err != nil {
				return err
			}
		}
		q.Answers = answers
		return nil
	})
}

// Delete 级联删除选项与引用该题的答题明细
func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Question{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		return deleteQuestions(tx, []uint{id})
	})
}
