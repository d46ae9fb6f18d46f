package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quiz_backend/internal/repository"
	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Service *service.AdminService
}

func NewAdminController(svc *service.AdminService) *AdminController {
	return &AdminController{Service: svc}
}

func (c *AdminController) handleError(ctx *gin.Context, err error) {
	var vErr *util.ValidationError
	switch {
	case errors.As(err, &vErr):
		util.BadRequest(ctx, vErr.Message)
	case errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// @Summary 试卷列表
// @Tags 管理
// @Produce json
// @Param search query string false "标题或描述"
// @Param active query bool false "是否启用"
// @Success 200 {object} util.Response
// @Router /admin/api/tests [get]
func (c *AdminController) ListTests(ctx *gin.Context) {
	filter := repository.TestFilter{Search: ctx.Query("search")}
	if v := ctx.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			util.BadRequest(ctx, "active must be true or false")
			return
		}
		filter.Active = &active
	}

	tests, err := c.Service.ListTests(ctx.Request.Context(), filter)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": tests, "total": len(tests)})
}

// @Summary 创建试卷
// @Tags 管理
// @Accept json
// @Produce json
// @Param body body service.TestReq true "试卷信息"
// @Success 201 {object} util.Response
// @Router /admin/api/tests [post]
func (c *AdminController) CreateTest(ctx *gin.Context) {
	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.CreateTest(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// @Summary 试卷详情
// @Tags 管理
// @Produce json
// @Param id path int true "试卷ID"
// @Success 200 {object} util.Response
// @Router /admin/api/tests/{id} [get]
func (c *AdminController) GetTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	test, err := c.Service.GetTest(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// @Summary 更新试卷
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path int true "试卷ID"
// @Param body body service.TestReq true "试卷信息"
// @Success 200 {object} util.Response
// @Router /admin/api/tests/{id} [put]
func (c *AdminController) UpdateTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Service.UpdateTest(ctx.Request.Context(), id, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// @Summary 删除试卷（级联删除题目与答题记录）
// @Tags 管理
// @Produce json
// @Param id path int true "试卷ID"
// @Success 200 {object} util.Response
// @Router /admin/api/tests/{id} [delete]
func (c *AdminController) DeleteTest(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	if err := c.Service.DeleteTest(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 题目列表
// @Tags 管理
// @Produce json
// @Param test query int false "试卷ID"
// @Param search query string false "题干"
// @Success 200 {object} util.Response
// @Router /admin/api/questions [get]
func (c *AdminController) ListQuestions(ctx *gin.Context) {
	filter := repository.QuestionFilter{
		TestID: util.MustParseUint(ctx.Query("test")),
		Search: ctx.Query("search"),
	}

	items, err := c.Service.ListQuestions(ctx.Request.Context(), filter)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": items, "total": len(items)})
}

// @Summary 创建题目及选项
// @Tags 管理
// @Accept json
// @Produce json
// @Param body body service.QuestionReq true "题目信息"
// @Success 201 {object} util.Response
// @Router /admin/api/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 题目详情
// @Tags 管理
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /admin/api/questions/{id} [get]
func (c *AdminController) GetQuestion(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	q, err := c.Service.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 更新题目（整体替换选项）
// @Tags 管理
// @Accept json
// @Produce json
// @Param id path int true "题目ID"
// @Param body body service.QuestionReq true "题目信息"
// @Success 200 {object} util.Response
// @Router /admin/api/questions/{id} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.UpdateQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 删除题目
// @Tags 管理
// @Produce json
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /admin/api/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	if err := c.Service.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 答题记录详情
// @Tags 管理
// @Produce json
// @Param id path int true "答题记录ID"
// @Success 200 {object} util.Response{data=service.AttemptDetail}
// @Router /admin/api/attempts/{id} [get]
func (c *AdminController) GetAttempt(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	detail, err := c.Service.GetAttempt(ctx.Request.Context(), id)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 删除答题记录
// @Tags 管理
// @Produce json
// @Param id path int true "答题记录ID"
// @Success 200 {object} util.Response
// @Router /admin/api/attempts/{id} [delete]
func (c *AdminController) DeleteAttempt(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		util.NotFound(ctx)
		return
	}

	if err := c.Service.DeleteAttempt(ctx.Request.Context(), id); err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
