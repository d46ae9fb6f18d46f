package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService 试卷、题目、选项的维护以及答题记录管理
type AdminService struct {
	Tests          TestRepository
	Questions      QuestionRepository
	Attempts       StudentTestRepository
	StudentAnswers StudentAnswerRepository
}

func NewAdminService(tests TestRepository, questions QuestionRepository, attempts StudentTestRepository, studentAnswers StudentAnswerRepository) *AdminService {
	return &AdminService{
		Tests:          tests,
		Questions:      questions,
		Attempts:       attempts,
		StudentAnswers: studentAnswers,
	}
}

type TestReq struct {
	Title         string `json:"title" binding:"required,max=200"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount" binding:"required,min=1,max=50"`
	IsActive      *bool  `json:"isActive"`
}

type AnswerReq struct {
	ID        uint   `json:"id"`
	Text      string `json:"text" binding:"required,max=500"`
	IsCorrect bool   `json:"isCorrect"`
	Letter    string `json:"letter" binding:"required,oneof=A B C D"`
}

type QuestionReq struct {
	TestID  uint        `json:"testId" binding:"required"`
	Text    string      `json:"text" binding:"required"`
	Order   int         `json:"order"`
	Answers []AnswerReq `json:"answers" binding:"required,min=2,max=4,dive"`
}

type QuestionListItem struct {
	model.Question
	TextPreview string `json:"textPreview"`
}

type AttemptDetail struct {
	Attempt        *model.StudentTest    `json:"studentTest"`
	StudentAnswers []model.StudentAnswer `json:"studentAnswers"`
}

func validateTestReq(req TestReq) error {
	if strings.TrimSpace(req.Title) == "" {
		return util.NewValidationError("title is required")
	}
	if req.QuestionCount < model.MinQuestionCount || req.QuestionCount > model.MaxQuestionCount {
		return util.NewValidationError("question count must be between %d and %d", model.MinQuestionCount, model.MaxQuestionCount)
	}
	return nil
}

// validateAnswers 每题 2-4 个选项，字母 A-D 不重复，有且只有一个正确答案
func validateAnswers(answers []AnswerReq) error {
	if len(answers) < model.MinAnswersPerQuestion || len(answers) > model.MaxAnswersPerQuestion {
		return util.NewValidationError("a question needs %d to %d answers, got %d",
			model.MinAnswersPerQuestion, model.MaxAnswersPerQuestion, len(answers))
	}

	seen := make(map[string]bool, len(answers))
	correct := 0
	for _, a := range answers {
		letter := strings.ToUpper(strings.TrimSpace(a.Letter))
		valid := false
		for _, l := range model.AnswerLetters {
			if l == letter {
				valid = true
				break
			}
		}
		if !valid {
			return util.NewValidationError("answer letter must be one of %s", strings.Join(model.AnswerLetters, "/"))
		}
		if seen[letter] {
			return util.NewValidationError("duplicate answer letter %s", letter)
		}
		seen[letter] = true

		if strings.TrimSpace(a.Text) == "" {
			return util.NewValidationError("answer %s has no text", letter)
		}
		if a.IsCorrect {
			correct++
		}
	}

	if correct != 1 {
		return util.NewValidationError("exactly one answer must be correct, got %d", correct)
	}
	return nil
}

func (s *AdminService) ListTests(ctx context.Context, filter repository.TestFilter) ([]model.Test, error) {
	return s.Tests.Search(ctx, filter)
}

func (s *AdminService) GetTest(ctx context.Context, id uint) (*model.Test, error) {
	test, err := s.Tests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return test, nil
}

func (s *AdminService) CreateTest(ctx context.Context, req TestReq) (*model.Test, error) {
	if err := validateTestReq(req); err != nil {
		return nil, err
	}

	test := &model.Test{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		QuestionCount: req.QuestionCount,
		IsActive:      true,
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := s.Tests.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	logger.Log.Info("test created", zap.Uint("test_id", test.ID), zap.String("title", test.Title))
	return test, nil
}

func (s *AdminService) UpdateTest(ctx context.Context, id uint, req TestReq) (*model.Test, error) {
	if err := validateTestReq(req); err != nil {
		return nil, err
	}

	test, err := s.GetTest(ctx, id)
	if err != nil {
		return nil, err
	}

	test.Title = strings.TrimSpace(req.Title)
	test.Description = req.Description
	test.QuestionCount = req.QuestionCount
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := s.Tests.Update(ctx, test); err != nil {
		return nil, fmt.Errorf("update test %d: %w", id, err)
	}
	return test, nil
}

func (s *AdminService) DeleteTest(ctx context.Context, id uint) error {
	if err := s.Tests.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrTestNotFound
		}
		return fmt.Errorf("delete test %d: %w", id, err)
	}
	logger.Log.Info("test deleted", zap.Uint("test_id", id))
	return nil
}

func (s *AdminService) ListQuestions(ctx context.Context, filter repository.QuestionFilter) ([]QuestionListItem, error) {
	qs, err := s.Questions.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]QuestionListItem, len(qs))
	for i, q := range qs {
		items[i] = QuestionListItem{Question: q, TextPreview: q.Preview()}
	}
	return items, nil
}

func (s *AdminService) GetQuestion(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.Questions.FindByIDWithAnswers(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *AdminService) CreateQuestion(ctx context.Context, req QuestionReq) (*model.Question, error) {
	if err := s.validateQuestionReq(ctx, req); err != nil {
		return nil, err
	}

	q := &model.Question{
		TestID:  req.TestID,
		Text:    req.Text,
		Order:   questionOrder(req.Order),
		Answers: buildAnswers(req.Answers, nil),
	}
	if err := s.Questions.CreateWithAnswers(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *AdminService) UpdateQuestion(ctx context.Context, id uint, req QuestionReq) (*model.Question, error) {
	if err := s.validateQuestionReq(ctx, req); err != nil {
		return nil, err
	}

	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	owned := make(map[uint]bool, len(q.Answers))
	for _, a := range q.Answers {
		owned[a.ID] = true
	}

	q.TestID = req.TestID
	q.Text = req.Text
	q.Order = questionOrder(req.Order)
	q.Answers = buildAnswers(req.Answers, owned)

	if err := s.Questions.UpdateWithAnswers(ctx, q); err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	return q, nil
}

func (s *AdminService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.Questions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

func (s *AdminService) GetAttempt(ctx context.Context, id uint) (*AttemptDetail, error) {
	attempt, err := s.Attempts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	answers, err := s.StudentAnswers.FindByStudentTestID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AttemptDetail{Attempt: attempt, StudentAnswers: answers}, nil
}

func (s *AdminService) DeleteAttempt(ctx context.Context, id uint) error {
	if err := s.Attempts.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrAttemptNotFound
		}
		return fmt.Errorf("delete attempt %d: %w", id, err)
	}
	return nil
}

func (s *AdminService) validateQuestionReq(ctx context.Context, req QuestionReq) error {
	if strings.TrimSpace(req.Text) == "" {
		return util.NewValidationError("question text is required")
	}
	if err := validateAnswers(req.Answers); err != nil {
		return err
	}
	if _, err := s.GetTest(ctx, req.TestID); err != nil {
		return err
	}
	return nil
}

func questionOrder(order int) int {
	if order < 1 {
		return 1
	}
	return order
}

// buildAnswers 只保留属于当前题目的选项 ID，其余按新选项写入
func buildAnswers(reqs []AnswerReq, owned map[uint]bool) []model.Answer {
	answers := make([]model.Answer, len(reqs))
	for i, a := range reqs {
		answers[i] = model.Answer{
			Text:      strings.TrimSpace(a.Text),
			IsCorrect: a.IsCorrect,
			Letter:    strings.ToUpper(strings.TrimSpace(a.Letter)),
		}
		if a.ID != 0 && owned[a.ID] {
			answers[i].ID = a.ID
		}
	}
	return answers
}
