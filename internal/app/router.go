package app

import (
	"jobquest_backend/docs"
	"jobquest_backend/internal/config"
	"jobquest_backend/internal/middleware"
	"jobquest_backend/internal/model"
	"jobquest_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, revocation middleware.RevocationChecker, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, revocation))
	{
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.POST("/logout", c.auth.Logout)

		tests := authGroup.Group("/tests")
		{
			tests.GET("/list", c.test.ListTests)
			tests.GET("/scores", c.test.ListScores)
			tests.POST("/submit", c.test.SubmitAnswer)
			tests.POST("/calculate-score", c.test.CalculateScore)
			tests.GET("/:test_id/questions", c.test.GetQuestions)
			tests.POST("/:test_id/voice", c.test.SubmitVoiceAnswer)
			tests.GET("/:test_id/results", c.test.GetResults)
			tests.GET("/:test_id/completion", c.test.CheckCompletion)
		}
	}

	// 3. 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret, revocation), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/tests", c.admin.CreateTest)
	}
}
