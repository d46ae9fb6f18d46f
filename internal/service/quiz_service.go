package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quiz_backend/internal/model"
	"quiz_backend/internal/session"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"
	"quiz_backend/pkg/monitoring"
	"quiz_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService 答题流程：开始、取题、提交、结束
type QuizService struct {
	Tests          TestRepository
	Questions      QuestionRepository
	Answers        AnswerRepository
	Attempts       StudentTestRepository
	StudentAnswers StudentAnswerRepository
	Sessions       session.Store
	Rand           Randomizer
	Now            func() time.Time
}

func NewQuizService(
	tests TestRepository,
	questions QuestionRepository,
	answers AnswerRepository,
	attempts StudentTestRepository,
	studentAnswers StudentAnswerRepository,
	sessions session.Store,
	rnd Randomizer,
) *QuizService {
	return &QuizService{
		Tests:          tests,
		Questions:      questions,
		Answers:        answers,
		Attempts:       attempts,
		StudentAnswers: studentAnswers,
		Sessions:       sessions,
		Rand:           rnd,
		Now:            time.Now,
	}
}

type StartInput struct {
	StudentName  string `form:"student_name" json:"student_name"`
	StudentClass string `form:"student_class" json:"student_class"`
}

// AnswerOption 展示给学生的选项，不包含正确性
type AnswerOption struct {
	ID     uint   `json:"id"`
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type QuestionPage struct {
	Completed      bool               `json:"completed"`
	Attempt        *model.StudentTest `json:"studentTest,omitempty"`
	QuestionID     uint               `json:"questionId,omitempty"`
	QuestionText   string             `json:"questionText,omitempty"`
	Answers        []AnswerOption     `json:"answers,omitempty"`
	QuestionNum    int                `json:"questionNum"`
	TotalQuestions int                `json:"totalQuestions"`
	Progress       float64            `json:"progress"`
}

type SubmitResult struct {
	IsCorrect    bool `json:"isCorrect"`
	Score        int  `json:"score"`
	NextQuestion int  `json:"nextQuestion,omitempty"`
	Completed    bool `json:"completed"`
}

type QuizResult struct {
	Attempt        *model.StudentTest    `json:"studentTest"`
	StudentAnswers []model.StudentAnswer `json:"studentAnswers"`
	CorrectAnswers int                   `json:"correctAnswers"`
	WrongAnswers   int                   `json:"wrongAnswers"`
	TotalQuestions int                   `json:"totalQuestions"`
	Percentage     float64               `json:"percentage"`
}

// GetActiveTest 开始表单使用，未启用的试卷视为不存在
func (s *QuizService) GetActiveTest(ctx context.Context, testID uint) (*model.Test, error) {
	test, err := s.Tests.FindActiveByID(ctx, testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, fmt.Errorf("load test %d: %w", testID, err)
	}
	return test, nil
}

// Start 创建答题记录并把抽到的题目序列写入会话
func (s *QuizService) Start(ctx context.Context, sessionID string, testID uint, in StartInput) (*model.StudentTest, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.Start")
	defer span.End()
	span.SetAttributes(attribute.Int64("quiz.test_id", int64(testID)))

	test, err := s.GetActiveTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.StudentName)
	class := strings.TrimSpace(in.StudentClass)
	if name == "" || class == "" {
		monitoring.AttemptRejected.WithLabelValues("validation").Inc()
		return nil, &util.ValidationError{Message: util.MsgFillAllFields}
	}

	questions, err := s.Questions.FindByTestID(ctx, test.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions of test %d: %w", test.ID, err)
	}
	if test.QuestionCount < 1 {
		monitoring.AttemptRejected.WithLabelValues("validation").Inc()
		return nil, util.NewValidationError("test %d has no questions configured", test.ID)
	}
	if len(questions) < test.QuestionCount {
		monitoring.AttemptRejected.WithLabelValues("insufficient_questions").Inc()
		return nil, &util.InsufficientQuestionsError{Available: len(questions), Required: test.QuestionCount}
	}

	pool := make([]uint, len(questions))
	for i, q := range questions {
		pool[i] = q.ID
	}
	sample := sampleIDs(s.Rand, pool, test.QuestionCount)

	attempt := &model.StudentTest{
		StudentName:    name,
		StudentClass:   class,
		TestID:         test.ID,
		TotalQuestions: test.QuestionCount,
		StartedAt:      s.Now(),
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	if err := s.Sessions.SaveSample(ctx, sessionID, attempt.ID, sample); err != nil {
		if delErr := s.Attempts.HardDelete(ctx, attempt.ID); delErr != nil {
			logger.Log.Error("failed to roll back attempt", zap.Uint("attempt_id", attempt.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("store sample for attempt %d: %w", attempt.ID, err)
	}

	attempt.Test = *test
	monitoring.AttemptsStarted.Inc()
	logger.Log.Info("quiz attempt started",
		zap.Uint("attempt_id", attempt.ID),
		zap.Uint("test_id", test.ID),
		zap.String("student_class", class),
		zap.Int("questions", len(sample)),
	)
	return attempt, nil
}

// GetQuestion 返回第 questionNum 题（从 1 开始），选项每次重新打乱；超出题目数量时返回 Completed
func (s *QuizService) GetQuestion(ctx context.Context, sessionID string, attemptID uint, questionNum int) (*QuestionPage, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.GetQuestion")
	defer span.End()
	span.SetAttributes(attribute.Int64("quiz.attempt_id", int64(attemptID)), attribute.Int("quiz.question_num", questionNum))

	attempt, err := s.findAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted() {
		s.dropSample(ctx, sessionID, attempt.ID)
		return &QuestionPage{Completed: true, Attempt: attempt, QuestionNum: questionNum, TotalQuestions: attempt.TotalQuestions}, nil
	}

	sample, err := s.loadSample(ctx, sessionID, attemptID)
	if err != nil {
		return nil, err
	}

	total := len(sample)
	if questionNum > total {
		return &QuestionPage{Completed: true, Attempt: attempt, QuestionNum: questionNum, TotalQuestions: total}, nil
	}
	if questionNum < 1 {
		return nil, util.ErrQuestionOutOfRange
	}

	question, err := s.Questions.FindByID(ctx, sample[questionNum-1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	answers, err := s.Answers.FindByQuestionID(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers of question %d: %w", question.ID, err)
	}
	s.Rand.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })

	options := make([]AnswerOption, len(answers))
	for i, a := range answers {
		options[i] = AnswerOption{ID: a.ID, Letter: a.Letter, Text: a.Text}
	}

	return &QuestionPage{
		Attempt:        attempt,
		QuestionID:     question.ID,
		QuestionText:   question.Text,
		Answers:        options,
		QuestionNum:    questionNum,
		TotalQuestions: total,
		Progress:       float64(questionNum) / float64(total) * 100,
	}, nil
}

// SubmitAnswer 记录所选选项并判分。同一题重复提交会再次记录并可能再次加分，不做去重。
func (s *QuizService) SubmitAnswer(ctx context.Context, sessionID string, attemptID uint, questionNum int, answerID uint) (*SubmitResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.SubmitAnswer")
	defer span.End()
	span.SetAttributes(attribute.Int64("quiz.attempt_id", int64(attemptID)), attribute.Int("quiz.question_num", questionNum))

	if answerID == 0 {
		return nil, util.ErrMissingSelection
	}

	attempt, err := s.findAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	// 已结束的记录只读，其他会话结束后残留的题目序列一并清掉
	if attempt.IsCompleted() {
		s.dropSample(ctx, sessionID, attempt.ID)
		return nil, util.ErrAttemptCompleted
	}

	sample, err := s.loadSample(ctx, sessionID, attemptID)
	if err != nil {
		return nil, err
	}
	if questionNum < 1 || questionNum > len(sample) {
		return nil, util.ErrQuestionOutOfRange
	}

	question, err := s.Questions.FindByID(ctx, sample[questionNum-1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question: %w", err)
	}

	answer, err := s.Answers.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnswerNotFound
		}
		return nil, fmt.Errorf("load answer %d: %w", answerID, err)
	}
	if answer.QuestionID != question.ID {
		return nil, util.ErrAnswerNotFound
	}

	record := &model.StudentAnswer{
		StudentTestID:    attempt.ID,
		QuestionID:       question.ID,
		SelectedAnswerID: answer.ID,
		IsCorrect:        answer.IsCorrect,
	}
	if err := s.StudentAnswers.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record answer: %w", err)
	}

	if answer.IsCorrect {
		attempt.Score++
		if err := s.Attempts.Save(ctx, attempt); err != nil {
			return nil, fmt.Errorf("update score: %w", err)
		}
	}
	monitoring.AnswersGraded.WithLabelValues(fmt.Sprintf("%t", answer.IsCorrect)).Inc()

	result := &SubmitResult{IsCorrect: answer.IsCorrect, Score: attempt.Score}
	if questionNum < len(sample) {
		result.NextQuestion = questionNum + 1
	} else {
		result.Completed = true
	}
	return result, nil
}

// Finish 计算最终成绩并清除会话中的题目序列；已完成的记录不会被重新计算
func (s *QuizService) Finish(ctx context.Context, sessionID string, attemptID uint) (*QuizResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.Finish")
	defer span.End()
	span.SetAttributes(attribute.Int64("quiz.attempt_id", int64(attemptID)))

	attempt, err := s.findAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	if !attempt.IsCompleted() {
		attempt.CalculatePercentage()
		now := s.Now()
		attempt.CompletedAt = &now
		if err := s.Attempts.Save(ctx, attempt); err != nil {
			return nil, fmt.Errorf("finalize attempt %d: %w", attempt.ID, err)
		}
		monitoring.AttemptsFinished.Inc()
		logger.Log.Info("quiz attempt finished",
			zap.Uint("attempt_id", attempt.ID),
			zap.Int("score", attempt.Score),
			zap.Int("total", attempt.TotalQuestions),
			zap.Float64("percentage", attempt.Percentage),
		)
	}

	s.dropSample(ctx, sessionID, attempt.ID)

	answers, err := s.StudentAnswers.FindByStudentTestID(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("load answers of attempt %d: %w", attempt.ID, err)
	}

	return &QuizResult{
		Attempt:        attempt,
		StudentAnswers: answers,
		CorrectAnswers: attempt.Score,
		WrongAnswers:   attempt.TotalQuestions - attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage,
	}, nil
}

func (s *QuizService) findAttempt(ctx context.Context, attemptID uint) (*model.StudentTest, error) {
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt %d: %w", attemptID, err)
	}
	return attempt, nil
}

func (s *QuizService) dropSample(ctx context.Context, sessionID string, attemptID uint) {
	if err := s.Sessions.ClearSample(ctx, sessionID, attemptID); err != nil {
		logger.Log.Warn("failed to clear session sample", zap.Uint("attempt_id", attemptID), zap.Error(err))
	}
}

func (s *QuizService) loadSample(ctx context.Context, sessionID string, attemptID uint) ([]uint, error) {
	sample, err := s.Sessions.LoadSample(ctx, sessionID, attemptID)
	if err != nil {
		if errors.Is(err, session.ErrNoSample) {
			return nil, util.ErrSessionExpired
		}
		return nil, fmt.Errorf("load session sample: %w", err)
	}
	return sample, nil
}
