package model

import (
	"math"
	"time"
)

// StudentTest 一次答题记录（attempt）
// swagger:model StudentTest
type StudentTest struct {
	BaseModel
	StudentName    string     `gorm:"size:100;not null;index" json:"studentName"`
	StudentClass   string     `gorm:"size:20;not null;index" json:"studentClass"`
	TestID         uint       `gorm:"index;not null" json:"testId"`
	Test           Test       `gorm:"foreignKey:TestID" json:"test"`
	Score          int        `gorm:"default:0" json:"score"`
	TotalQuestions int        `gorm:"default:0" json:"totalQuestions"`
	Percentage     float64    `gorm:"type:decimal(8,2);default:0" json:"percentage"`
	StartedAt      time.Time  `gorm:"index" json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (StudentTest) TableName() string {
	return "student_tests"
}

func (s *StudentTest) IsCompleted() bool {
	return s.CompletedAt != nil
}

// CalculatePercentage 计算正确率并保留两位小数，总题数为 0 时返回 0
func (s *StudentTest) CalculatePercentage() float64 {
	if s.TotalQuestions <= 0 {
		s.Percentage = 0
		return 0
	}
	s.Percentage = RoundPercentage(float64(s.Score) / float64(s.TotalQuestions) * 100)
	return s.Percentage
}

func RoundPercentage(v float64) float64 {
	return math.Round(v*100) / 100
}

// swagger:model StudentAnswer
type StudentAnswer struct {
	BaseModel
	StudentTestID    uint     `gorm:"index;not null" json:"studentTestId"`
	QuestionID       uint     `gorm:"index;not null" json:"questionId"`
	Question         Question `gorm:"foreignKey:QuestionID" json:"question"`
	SelectedAnswerID uint     `gorm:"index;not null" json:"selectedAnswerId"`
	SelectedAnswer   Answer   `gorm:"foreignKey:SelectedAnswerID" json:"selectedAnswer"`
	IsCorrect        bool     `gorm:"default:false" json:"isCorrect"`
}

func (StudentAnswer) TableName() string {
	return "student_answers"
}
