package util

import (
	"errors"
	"fmt"
)

var (
	ErrTestNotFound       = errors.New("test not found")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrSessionExpired     = errors.New("session expired, please start the test again")
	ErrMissingSelection   = errors.New("please choose an answer")
	ErrQuestionOutOfRange = errors.New("question number out of range")
	ErrAttemptCompleted   = errors.New("attempt already completed")
)

// ValidationError 表单或写入数据不合法，可直接展示给用户
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// InsufficientQuestionsError 试卷题目数量少于抽题数量
type InsufficientQuestionsError struct {
	Available int
	Required  int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("not enough questions in the test: available %d, required %d", e.Available, e.Required)
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
