package repository

import (
	"context"

	"quiz_backend/internal/model"

	"gorm.io/gorm"
)

type StudentTestRepository struct {
	DB *gorm.DB
}

func NewStudentTestRepository(db *gorm.DB) *StudentTestRepository {
	return &StudentTestRepository{DB: db}
}

// StudentTestFilter 成绩列表筛选条件，姓名与班级为不区分大小写的子串匹配
type StudentTestFilter struct {
	StudentName  string
	StudentClass string
	TestID       uint
}

func (r *StudentTestRepository) Create(ctx context.Context, attempt *model.StudentTest) error {
	return r.DB.WithContext(ctx).Omit("Test").Create(attempt).Error
}

// Save 整行写回，不做并发控制
func (r *StudentTestRepository) Save(ctx context.Context, attempt *model.StudentTest) error {
	return r.DB.WithContext(ctx).Omit("Test").Save(attempt).Error
}

func (r *StudentTestRepository) FindByID(ctx context.Context, id uint) (*model.StudentTest, error) {
	var attempt model.StudentTest
	if err := r.DB.WithContext(ctx).Preload("Test").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// HardDelete 物理删除，用于回滚未完成创建的记录
func (r *StudentTestRepository) HardDelete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Unscoped().Delete(&model.StudentTest{}, id).Error
}

// Delete 级联删除答题明细
func (r *StudentTestRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_test_id = ?", id).Delete(&model.StudentAnswer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.StudentTest{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *StudentTestRepository) List(ctx context.Context, filter StudentTestFilter, offset, limit int) ([]model.StudentTest, int64, error) {
	query := r.DB.WithContext(ctx).Model(&model.StudentTest{})
	if filter.StudentName != "" {
		query = query.Where("LOWER(student_name) LIKE ? ESCAPE '!'", containsPattern(filter.StudentName))
	}
	if filter.StudentClass != "" {
		query = query.Where("LOWER(student_class) LIKE ? ESCAPE '!'", containsPattern(filter.StudentClass))
	}
	if filter.TestID != 0 {
		query = query.Where("test_id = ?", filter.TestID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.StudentTest
	err := query.Preload("Test").
		Order("started_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}
