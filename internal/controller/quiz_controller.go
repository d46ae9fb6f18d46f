package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"quiz_backend/internal/service"
	"quiz_backend/internal/session"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	Service  *service.QuizService
	Results  *service.ResultsService
	Sessions session.Store
}

func NewQuizController(svc *service.QuizService, results *service.ResultsService, sessions session.Store) *QuizController {
	return &QuizController{Service: svc, Results: results, Sessions: sessions}
}

func questionURL(attemptID uint, num int) string {
	return fmt.Sprintf("/quiz/%d/%d/", attemptID, num)
}

func finishURL(attemptID uint) string {
	return fmt.Sprintf("/finish/%d/", attemptID)
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func intParam(ctx *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *QuizController) flash(ctx *gin.Context, message string) {
	if err := c.Sessions.AddFlash(ctx.Request.Context(), util.GetSessionID(ctx), message); err != nil {
		logger.Log.Warn("failed to store flash message", zap.Error(err))
	}
}

// handleError 统一处理答题流程中的错误，会话过期时回到首页
func (c *QuizController) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionExpired):
		c.flash(ctx, util.MsgSessionExpired)
		ctx.Redirect(http.StatusFound, "/")
	case errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAnswerNotFound),
		errors.Is(err, util.ErrQuestionOutOfRange):
		util.Error(ctx, http.StatusNotFound, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 首页：可参加的试卷列表
// @Tags 答题
// @Produce json
// @Success 200 {object} util.Response
// @Router / [get]
func (c *QuizController) Home(ctx *gin.Context) {
	tests, err := c.Results.ListActiveTests(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	messages, err := c.Sessions.PopFlashes(ctx.Request.Context(), util.GetSessionID(ctx))
	if err != nil {
		logger.Log.Warn("failed to read flash messages", zap.Error(err))
	}

	util.Success(ctx, gin.H{"tests": tests, "messages": messages})
}

// @Summary 开始表单
// @Tags 答题
// @Produce json
// @Param test_id path int true "试卷ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /test/{test_id}/ [get]
func (c *QuizController) StartForm(ctx *gin.Context) {
	testID, ok := uintParam(ctx, "test_id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	test, err := c.Service.GetActiveTest(ctx.Request.Context(), testID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"test": test})
}

// @Summary 开始答题
// @Tags 答题
// @Accept x-www-form-urlencoded
// @Produce json
// @Param test_id path int true "试卷ID"
// @Param student_name formData string true "学生姓名"
// @Param student_class formData string true "班级"
// @Success 303 "跳转到第 1 题"
// @Failure 400 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /test/{test_id}/ [post]
func (c *QuizController) StartTest(ctx *gin.Context) {
	testID, ok := uintParam(ctx, "test_id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	var in service.StartInput
	if err := ctx.ShouldBind(&in); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.Start(ctx.Request.Context(), util.GetSessionID(ctx), testID, in)
	if err != nil {
		var vErr *util.ValidationError
		var qErr *util.InsufficientQuestionsError
		switch {
		case errors.As(err, &vErr):
			c.renderStartError(ctx, testID, http.StatusBadRequest, vErr.Message, nil)
		case errors.As(err, &qErr):
			c.renderStartError(ctx, testID, http.StatusUnprocessableEntity, qErr.Error(),
				gin.H{"available": qErr.Available, "required": qErr.Required})
		default:
			c.handleError(ctx, err)
		}
		return
	}

	ctx.Redirect(http.StatusSeeOther, questionURL(attempt.ID, 1))
}

// renderStartError 重新展示开始表单并附带错误信息
func (c *QuizController) renderStartError(ctx *gin.Context, testID uint, status int, message string, extra gin.H) {
	test, err := c.Service.GetActiveTest(ctx.Request.Context(), testID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	data := gin.H{"test": test}
	for k, v := range extra {
		data[k] = v
	}
	util.ErrorWithData(ctx, status, message, data)
}

// @Summary 显示题目
// @Tags 答题
// @Produce json
// @Param attempt_id path int true "答题记录ID"
// @Param question_num path int true "题号（从 1 开始）"
// @Success 200 {object} util.Response{data=service.QuestionPage}
// @Success 302 "全部答完时跳转到结果页；会话失效时跳转到首页"
// @Failure 404 {object} util.Response
// @Router /quiz/{attempt_id}/{question_num}/ [get]
func (c *QuizController) Question(ctx *gin.Context) {
	attemptID, ok1 := uintParam(ctx, "attempt_id")
	num, ok2 := intParam(ctx, "question_num")
	if !ok1 || !ok2 {
		util.NotFound(ctx)
		return
	}

	page, err := c.Service.GetQuestion(ctx.Request.Context(), util.GetSessionID(ctx), attemptID, num)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	if page.Completed {
		ctx.Redirect(http.StatusFound, finishURL(attemptID))
		return
	}

	messages, err := c.Sessions.PopFlashes(ctx.Request.Context(), util.GetSessionID(ctx))
	if err != nil {
		logger.Log.Warn("failed to read flash messages", zap.Error(err))
	}

	util.Success(ctx, gin.H{"page": page, "messages": messages})
}

// @Summary 提交答案
// @Tags 答题
// @Accept x-www-form-urlencoded
// @Param attempt_id path int true "答题记录ID"
// @Param question_num path int true "题号"
// @Param answer_id formData int true "所选选项ID"
// @Success 303 "跳转到下一题或结果页"
// @Failure 404 {object} util.Response
// @Router /submit/{attempt_id}/{question_num}/ [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	attemptID, ok1 := uintParam(ctx, "attempt_id")
	num, ok2 := intParam(ctx, "question_num")
	if !ok1 || !ok2 {
		util.NotFound(ctx)
		return
	}

	answerID := util.MustParseUint(ctx.PostForm("answer_id"))

	result, err := c.Service.SubmitAnswer(ctx.Request.Context(), util.GetSessionID(ctx), attemptID, num, answerID)
	if err != nil {
		if errors.Is(err, util.ErrMissingSelection) {
			c.flash(ctx, util.MsgChooseAnswer)
			ctx.Redirect(http.StatusSeeOther, questionURL(attemptID, num))
			return
		}
		if errors.Is(err, util.ErrAttemptCompleted) {
			ctx.Redirect(http.StatusSeeOther, finishURL(attemptID))
			return
		}
		c.handleError(ctx, err)
		return
	}

	if result.Completed {
		ctx.Redirect(http.StatusSeeOther, finishURL(attemptID))
		return
	}
	ctx.Redirect(http.StatusSeeOther, questionURL(attemptID, result.NextQuestion))
}

// SubmitRedirect 非 POST 请求不做任何写入，直接回到题目页
func (c *QuizController) SubmitRedirect(ctx *gin.Context) {
	attemptID, ok1 := uintParam(ctx, "attempt_id")
	num, ok2 := intParam(ctx, "question_num")
	if !ok1 || !ok2 {
		util.NotFound(ctx)
		return
	}
	ctx.Redirect(http.StatusFound, questionURL(attemptID, num))
}

// @Summary 结束答题并查看成绩
// @Tags 答题
// @Produce json
// @Param attempt_id path int true "答题记录ID"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 404 {object} util.Response
// @Router /finish/{attempt_id}/ [get]
func (c *QuizController) Finish(ctx *gin.Context) {
	attemptID, ok := uintParam(ctx, "attempt_id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	result, err := c.Service.Finish(ctx.Request.Context(), util.GetSessionID(ctx), attemptID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
