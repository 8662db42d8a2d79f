package routes

import (
	"codereview/constants"
	"codereview/controllers"
	"codereview/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRoutes(router *gin.Engine, redisCli *redis.Client) {
	v1 := router.Group("/api/v1")

	v1.POST("/auth/register",
		middleware.RateLimitMiddleware(redisCli, "register", constants.RegisterPerMinuteLimit),
		controllers.RegisterUser)
	v1.POST("/auth/login",
		middleware.RateLimitMiddleware(redisCli, "login", constants.LoginPerMinuteLimit),
		controllers.Login)
	v1.POST("/auth/google", controllers.AuthGoogle)
	v1.DELETE("/auth/logout", controllers.Logout)
	v1.GET("/profile", middleware.AuthMiddleware(), controllers.GetProfile)
	v1.POST("/profile/avatar", middleware.AuthMiddleware(), controllers.UploadAvatar)

	v1.POST("/submissions", middleware.AuthMiddleware(constants.RoleStudent), controllers.CreateSubmission)
	v1.GET("/submissions", middleware.AuthMiddleware(), controllers.GetSubmissions)
	v1.GET("/submissions/:id", middleware.AuthMiddleware(), controllers.GetSubmissionDetail)
	v1.PUT("/submissions/:id", middleware.AuthMiddleware(constants.RoleStudent), controllers.UpdateSubmission)
	v1.DELETE("/submissions/:id",
		middleware.AuthMiddleware(constants.RoleStudent, constants.RoleAdmin),
		controllers.DeleteSubmission)
	v1.GET("/submissions/:id/reviews", middleware.AuthMiddleware(), controllers.GetReviewsBySubmission)

	v1.POST("/reviews", middleware.AuthMiddleware(constants.RoleMentor), controllers.CreateReview)

	v1.GET("/analytics/student", middleware.AuthMiddleware(constants.RoleStudent), controllers.GetStudentDashboard)
	v1.GET("/analytics/mentor", middleware.AuthMiddleware(constants.RoleMentor), controllers.GetMentorDashboard)
	v1.GET("/analytics/admin", middleware.AuthMiddleware(constants.RoleAdmin), controllers.GetAdminDashboard)

	v1.POST("/ai/analyze",
		middleware.AuthMiddleware(),
		middleware.RateLimitMiddleware(redisCli, "ai_analyze", constants.AIAnalysisPerMinuteLimit),
		controllers.AnalyzeCode)
	v1.GET("/ai/quota", middleware.AuthMiddleware(), controllers.GetQuotaStatus)

	v1.GET("/tags", middleware.AuthMiddleware(), controllers.GetTags)

	v1.GET("/notifications", middleware.AuthMiddleware(), controllers.GetNotifications)
	v1.PUT("/notifications/:id/read", middleware.AuthMiddleware(), controllers.MarkNotificationRead)

	v1.GET("/users", middleware.AuthMiddleware(constants.RoleAdmin), controllers.GetUsers)
	v1.PUT("/userStatus", middleware.AuthMiddleware(constants.RoleAdmin), controllers.ChangeUserStatus)
}
