package model

const (
	MinQuestionCount = 1
	MaxQuestionCount = 50

	MinAnswersPerQuestion = 2
	MaxAnswersPerQuestion = 4
)

// AnswerLetters 选项字母，按顺序排列
var AnswerLetters = []string{"A", "B", "C", "D"}

// swagger:model Test
type Test struct {
	BaseModel
	Title         string     `gorm:"size:200;not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	QuestionCount int        `gorm:"default:5;not null" json:"questionCount"`
	IsActive      bool       `gorm:"not null;index" json:"isActive"`
	Questions     []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// swagger:model Question
type Question struct {
	BaseModel
	TestID  uint     `gorm:"index;not null" json:"testId"`
	Text    string   `gorm:"type:text;not null" json:"text"`
	Order   int      `gorm:"column:display_order;default:1" json:"order"`
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Preview 截断题干用于列表展示
func (q Question) Preview() string {
	return truncate(q.Text, 50)
}

// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	Letter     string `gorm:"size:1;not null" json:"letter"`
}

func (Answer) TableName() string {
	return "answers"
}

func (a Answer) Preview() string {
	return truncate(a.Text, 30)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
