package app

import (
	"quiz_backend/docs"
	"quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	// 1. 学生答题流程
	a.registerQuizRoutes(router, c)

	// 2. 成绩查询
	router.GET("/results/", c.results.ListResults)

	// 3. 题库管理
	a.registerAdminRoutes(router, c)
}

func (a *App) registerQuizRoutes(router *gin.Engine, c *controllers) {
	router.GET("/", c.quiz.Home)

	router.GET("/test/:test_id/", c.quiz.StartForm)
	router.POST("/test/:test_id/", c.quiz.StartTest)

	router.GET("/quiz/:attempt_id/:question_num/", c.quiz.Question)

	router.POST("/submit/:attempt_id/:question_num/", c.quiz.Submit)
	router.GET("/submit/:attempt_id/:question_num/", c.quiz.SubmitRedirect)

	router.GET("/finish/:attempt_id/", c.quiz.Finish)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/admin/api")
	{
		admin.GET("/tests", c.admin.ListTests)
		admin.POST("/tests", c.admin.CreateTest)
		admin.GET("/tests/:id", c.admin.GetTest)
		admin.PUT("/tests/:id", c.admin.UpdateTest)
		admin.DELETE("/tests/:id", c.admin.DeleteTest)

		admin.GET("/questions", c.admin.ListQuestions)
		admin.POST("/questions", c.admin.CreateQuestion)
		admin.GET("/questions/:id", c.admin.GetQuestion)
		admin.PUT("/questions/:id", c.admin.UpdateQuestion)
		admin.DELETE("/questions/:id", c.admin.DeleteQuestion)

		admin.GET("/attempts/:id", c.admin.GetAttempt)
		admin.DELETE("/attempts/:id", c.admin.DeleteAttempt)
	}
}
