package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
)

type ResultsService struct {
	Tests    TestRepository
	Attempts StudentTestRepository

	pageSize atomic.Int64
}

func NewResultsService(tests TestRepository, attempts StudentTestRepository, pageSize int) *ResultsService {
	s := &ResultsService{Tests: tests, Attempts: attempts}
	s.SetPageSize(pageSize)
	return s
}

// SetPageSize 配置热更新时调用
func (s *ResultsService) SetPageSize(n int) {
	if n < 1 {
		n = 20
	}
	s.pageSize.Store(int64(n))
}

func (s *ResultsService) PageSize() int {
	return int(s.pageSize.Load())
}

type ResultFilter struct {
	StudentName  string `form:"student_name" json:"student_name"`
	StudentClass string `form:"student_class" json:"student_class"`
	TestID       uint   `form:"-" json:"test,omitempty"`
	Page         int    `form:"-" json:"-"`
}

type ResultsPage struct {
	Items          []model.StudentTest `json:"items"`
	Total          int64               `json:"total"`
	Page           int                 `json:"page"`
	PageSize       int                 `json:"pageSize"`
	TotalPages     int                 `json:"totalPages"`
	Tests          []model.Test        `json:"tests"`
	CurrentFilters ResultFilter        `json:"currentFilters"`
}

func (s *ResultsService) ListActiveTests(ctx context.Context) ([]model.Test, error) {
	return s.Tests.ListActive(ctx)
}

// ListResults 按条件筛选答题记录，最新的在前。页码越界时取最后一页。
func (s *ResultsService) ListResults(ctx context.Context, filter ResultFilter) (*ResultsPage, error) {
	size := s.PageSize()
	page := filter.Page
	if page < 1 {
		page = 1
	}

	repoFilter := repository.StudentTestFilter{
		StudentName:  filter.StudentName,
		StudentClass: filter.StudentClass,
		TestID:       filter.TestID,
	}

	items, total, err := s.Attempts.List(ctx, repoFilter, (page-1)*size, size)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
		items, total, err = s.Attempts.List(ctx, repoFilter, (page-1)*size, size)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
	}

	tests, err := s.Tests.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	filter.Page = page
	return &ResultsPage{
		Items:          items,
		Total:          total,
		Page:           page,
		PageSize:       size,
		TotalPages:     totalPages,
		Tests:          tests,
		CurrentFilters: filter,
	}, nil
}
