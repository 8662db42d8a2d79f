package controllers

import (
	"codereview/config"
	"codereview/middleware"
	"codereview/response"
	"codereview/services"

	"github.com/gin-gonic/gin"
)

func analyticsService() *services.AnalyticsService {
	return services.NewAnalyticsService(config.DB, services.NewQuotaService(config.DB))
}

// GetStudentDashboard returns the calling student's activity dashboard.
func GetStudentDashboard(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	dashboard, err := analyticsService().StudentDashboard(userID)
	if err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, dashboard)
}

// GetMentorDashboard returns the calling mentor's review dashboard.
func GetMentorDashboard(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	dashboard, err := analyticsService().MentorDashboard(userID)
	if err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, dashboard)
}

// GetAdminDashboard returns the platform-wide dashboard.
func GetAdminDashboard(c *gin.Context) {
	dashboard, err := analyticsService().AdminDashboard()
	if err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, dashboard)
}
