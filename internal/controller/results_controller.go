package controller

import (
	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultsController struct {
	Service *service.ResultsService
}

func NewResultsController(svc *service.ResultsService) *ResultsController {
	return &ResultsController{Service: svc}
}

// @Summary 答题记录列表
// @Description 按姓名、班级（不区分大小写的子串）和试卷筛选，最新的在前
// @Tags 成绩
// @Produce json
// @Param student_name query string false "学生姓名"
// @Param student_class query string false "班级"
// @Param test query int false "试卷ID"
// @Param page query int false "页码" default(1)
// @Success 200 {object} util.Response{data=service.ResultsPage}
// @Router /results/ [get]
func (c *ResultsController) ListResults(ctx *gin.Context) {
	filter := service.ResultFilter{
		StudentName:  ctx.Query("student_name"),
		StudentClass: ctx.Query("student_class"),
		TestID:       util.MustParseUint(ctx.Query("test")),
		Page:         util.ParsePage(ctx.Query("page")),
	}

	page, err := c.Service.ListResults(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, page)
}
