package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"quiz_backend/internal/config"
	"quiz_backend/internal/middleware"
	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/service"
	"quiz_backend/internal/session"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const cookieName = "quiz_session"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cookie *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	tests := repository.NewTestRepository(db)
	questions := repository.NewQuestionRepository(db)
	attempts := repository.NewStudentTestRepository(db)
	studentAnswers := repository.NewStudentAnswerRepository(db)
	store := session.NewMemoryStore(time.Hour)

	quizSvc := service.NewQuizService(tests, questions, repository.NewAnswerRepository(db), attempts, studentAnswers, store, service.NewRandomizer(7))
	resultsSvc := service.NewResultsService(tests, attempts, 20)
	adminSvc := service.NewAdminService(tests, questions, attempts, studentAnswers)

	quiz := NewQuizController(quizSvc, resultsSvc, store)
	results := NewResultsController(resultsSvc)
	admin := NewAdminController(adminSvc)
	health := NewHealthController(db, store)

	r := gin.New()
	r.Use(middleware.SessionMiddleware(config.SessionConfig{CookieName: cookieName, TTL: time.Hour}))
	r.GET("/", quiz.Home)
	r.GET("/test/:test_id/", quiz.StartForm)
	r.POST("/test/:test_id/", quiz.StartTest)
	r.GET("/quiz/:attempt_id/:question_num/", quiz.Question)
	r.POST("/submit/:attempt_id/:question_num/", quiz.Submit)
	r.GET("/submit/:attempt_id/:question_num/", quiz.SubmitRedirect)
	r.GET("/finish/:attempt_id/", quiz.Finish)
	r.GET("/results/", results.ListResults)
	r.GET("/api/health", health.HealthCheck)
	r.POST("/admin/api/tests", admin.CreateTest)
	r.GET("/admin/api/tests/:id", admin.GetTest)
	r.POST("/admin/api/questions", admin.CreateQuestion)
	r.DELETE("/admin/api/attempts/:id", admin.DeleteAttempt)

	return &testServer{router: r, db: db}
}

// do 发送请求并沿用服务端下发的会话 Cookie
func (s *testServer) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			s.cookie = c
		}
	}
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed(t *testing.T, questionCount, questions int) *model.Test {
	t.Helper()
	test := &model.Test{Title: "Math", QuestionCount: questionCount, IsActive: true}
	require.NoError(t, s.db.Create(test).Error)
	for i := 0; i < questions; i++ {
		require.NoError(t, s.db.Create(&model.Question{
			TestID: test.ID,
			Text:   fmt.Sprintf("q%d", i+1),
			Answers: []model.Answer{
				{Text: "right", IsCorrect: true, Letter: "A"},
				{Text: "wrong", Letter: "B"},
			},
		}).Error)
	}
	return test
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func startAttempt(t *testing.T, s *testServer, testID uint) string {
	t.Helper()
	w := s.do(t, http.MethodPost, fmt.Sprintf("/test/%d/", testID), url.Values{
		"student_name":  {"Ann"},
		"student_class": {"5A"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	return w.Header().Get("Location")
}

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t)
	test := s.seed(t, 2, 3)

	loc := startAttempt(t, s, test.ID)
	assert.Equal(t, "/quiz/1/1/", loc)
	require.NotNil(t, s.cookie)

	w := s.do(t, http.MethodGet, loc, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode(t, w)["data"].(map[string]interface{})["page"].(map[string]interface{})
	assert.EqualValues(t, 1, page["questionNum"])
	assert.EqualValues(t, 2, page["totalQuestions"])
	options := page["answers"].([]interface{})
	require.Len(t, options, 2)
	for _, o := range options {
		assert.NotContains(t, o.(map[string]interface{}), "isCorrect")
	}

	// 未选择答案时回到当前题目
	w = s.do(t, http.MethodPost, "/submit/1/1/", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/quiz/1/1/", w.Header().Get("Location"))
	w = s.do(t, http.MethodGet, "/quiz/1/1/", nil)
	messages := decode(t, w)["data"].(map[string]interface{})["messages"].([]interface{})
	assert.Equal(t, []interface{}{util.MsgChooseAnswer}, messages)

	questionID := uint(page["questionId"].(float64))
	var right model.Answer
	require.NoError(t, s.db.Where("question_id = ? AND is_correct = ?", questionID, true).First(&right).Error)

	w = s.do(t, http.MethodPost, "/submit/1/1/", url.Values{"answer_id": {fmt.Sprint(right.ID)}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/quiz/1/2/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/quiz/1/2/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode(t, w)["data"].(map[string]interface{})["page"].(map[string]interface{})
	questionID = uint(page["questionId"].(float64))
	var wrong model.Answer
	require.NoError(t, s.db.Where("question_id = ? AND is_correct = ?", questionID, false).First(&wrong).Error)

	w = s.do(t, http.MethodPost, "/submit/1/2/", url.Values{"answer_id": {fmt.Sprint(wrong.ID)}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/finish/1/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/quiz/1/3/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/finish/1/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/finish/1/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 50, result["percentage"])
	assert.EqualValues(t, 1, result["correctAnswers"])
	assert.EqualValues(t, 1, result["wrongAnswers"])

	w = s.do(t, http.MethodGet, "/results/?student_class=5a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])
}

func TestStartTest_Errors(t *testing.T) {
	s := newTestServer(t)
	short := s.seed(t, 5, 2)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/test/%d/", short.ID), url.Values{"student_name": {"Ann"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.MsgFillAllFields, decode(t, w)["message"])

	w = s.do(t, http.MethodPost, fmt.Sprintf("/test/%d/", short.ID), url.Values{
		"student_name":  {"Ann"},
		"student_class": {"5A"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["available"])
	assert.EqualValues(t, 5, data["required"])

	w = s.do(t, http.MethodPost, "/test/999/", url.Values{"student_name": {"Ann"}, "student_class": {"5A"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/test/abc/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var n int64
	require.NoError(t, s.db.Model(&model.StudentTest{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestQuestion_ExpiredSessionRedirectsHome(t *testing.T) {
	s := newTestServer(t)
	test := s.seed(t, 1, 1)
	loc := startAttempt(t, s, test.ID)

	// 换一个浏览器（新的会话）访问
	s.cookie = nil
	w := s.do(t, http.MethodGet, loc, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{util.MsgSessionExpired}, data["messages"])
	assert.Len(t, data["tests"], 1)
}

func TestSubmit_CompletedAttemptRedirectsToFinish(t *testing.T) {
	s := newTestServer(t)
	test := s.seed(t, 1, 1)
	startAttempt(t, s, test.ID)
	owner := s.cookie

	// 另一个会话先结束了这次答题
	s.cookie = nil
	w := s.do(t, http.MethodGet, "/finish/1/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	s.cookie = owner
	var right model.Answer
	require.NoError(t, s.db.Where("is_correct = ?", true).First(&right).Error)
	w = s.do(t, http.MethodPost, "/submit/1/1/", url.Values{"answer_id": {fmt.Sprint(right.ID)}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/finish/1/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/quiz/1/1/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/finish/1/", w.Header().Get("Location"))

	var stored model.StudentTest
	require.NoError(t, s.db.First(&stored, 1).Error)
	assert.Equal(t, 0, stored.Score)
}

func TestSubmit_GetAndBadParams(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/submit/4/2/", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/quiz/4/2/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/quiz/abc/1/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/finish/42/", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.doJSON(t, http.MethodPost, "/admin/api/tests", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodPost, "/admin/api/tests", `{"title":"Math","questionCount":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)["data"].(map[string]interface{})
	testID := uint(created["id"].(float64))
	assert.Equal(t, true, created["isActive"])

	w = s.doJSON(t, http.MethodPost, "/admin/api/questions", fmt.Sprintf(
		`{"testId":%d,"text":"1+1?","answers":[{"text":"2","letter":"A","isCorrect":true},{"text":"3","letter":"B","isCorrect":true}]}`, testID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodPost, "/admin/api/questions", fmt.Sprintf(
		`{"testId":%d,"text":"1+1?","answers":[{"text":"2","letter":"A","isCorrect":true},{"text":"3","letter":"B"}]}`, testID))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.doJSON(t, http.MethodGet, "/admin/api/tests/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.doJSON(t, http.MethodDelete, "/admin/api/attempts/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["data"].(map[string]interface{})["status"])
}
