package controllers

import (
	"errors"

	"codereview/config"
	"codereview/constants"
	"codereview/dto"
	apperrors "codereview/errors"
	"codereview/middleware"
	"codereview/response"
	"codereview/services"
	"codereview/utils"
	"codereview/validator"

	"github.com/gin-gonic/gin"
)

var analyzer services.Analyzer

// SetAnalyzer wires the AI provider used by AnalyzeCode.
func SetAnalyzer(a services.Analyzer) {
	analyzer = a
}

func quotaService() *services.QuotaService {
	return services.NewQuotaService(config.DB)
}

// AnalyzeCode runs an AI review of the posted code. The caller's daily
// quota is reserved before the provider is called, so a provider failure
// still consumes one analysis.
func AnalyzeCode(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var input dto.AnalyzeRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := validator.ValidateCodeContent(input.Code); err != nil {
		respondAppError(c, err)
		return
	}

	if analyzer == nil {
		response.ServerErrorWithMessage(c, "AI analysis is not configured.")
		return
	}

	quota := quotaService()
	allowed, remaining, err := quota.CheckAndReserve(userID, constants.AIAnalysisDailyLimit)
	if err != nil {
		if errors.Is(err, apperrors.ErrQuotaExceeded) {
			utils.LogInfo("AI quota exhausted: user_id=%d", userID)
			response.TooManyRequests(c, "Daily AI analysis limit reached. Try again tomorrow.", dto.QuotaStatus{
				TotalLimit:     constants.AIAnalysisDailyLimit,
				UsedToday:      constants.AIAnalysisDailyLimit,
				RemainingToday: 0,
				Date:           quota.Today(),
			})
			return
		}
		response.ServerError(c)
		return
	}
	if !allowed {
		response.ServerError(c)
		return
	}

	result, err := analyzer.AnalyzeCode(c.Request.Context(), input)
	if err != nil {
		utils.LogError("AI analysis failed: user_id=%d, err=%v", userID, err)
		response.ServerErrorWithMessage(c, "AI analysis failed. The attempt still counted against your daily limit.")
		return
	}

	response.Success(c, dto.AnalyzeResponse{
		OverallScore:           result.OverallScore,
		Summary:                result.Summary,
		Issues:                 result.Issues,
		AnalysisTime:           result.AnalysisTime,
		RemainingAnalysesToday: remaining,
	})
}

// GetQuotaStatus reports the caller's remaining AI analyses for today.
func GetQuotaStatus(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	status, err := quotaService().Status(userID, constants.AIAnalysisDailyLimit)
	if err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, status)
}
