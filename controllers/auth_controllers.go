package controllers

import (
	"codereview/config"
	"codereview/constants"
	"codereview/dto"
	apperrors "codereview/errors"
	"codereview/middleware"
	"codereview/models"
	"codereview/response"
	"codereview/services"
	"codereview/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

func toUserResponse(user models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      constants.RoleName(user.Role),
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func RegisterUser(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role := constants.RoleStudent
	if input.Role != "" {
		role = constants.RoleFromName(input.Role)
	}

	user, err := services.RegisterUser(config.DB, input.Name, input.Email, input.Password, role)
	if err != nil {
		if appErr := apperrors.GetAppError(err); appErr != nil {
			response.BadRequest(c, appErr.Message)
			return
		}
		response.ServerError(c)
		return
	}

	utils.LogInfo("New user registered: user_id=%d, email=%s", user.ID, user.Email)
	response.Created(c, gin.H{
		"message": "User registered successfully.",
		"user":    toUserResponse(user),
	})
}

func Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.LogError("Failed login attempt for email=%s", email)
		response.BadRequest(c, "Invalid email or password.")
		return
	}

	if err := services.CheckPassword(user.Password, input.Password); err != nil {
		utils.LogError("Failed login attempt for email=%s", email)
		response.BadRequest(c, "Invalid email or password.")
		return
	}

	if user.Status != constants.UserStatusActive {
		response.ForbiddenWithMessage(c, "Account is deactivated.")
		return
	}

	accessToken, err := services.GenerateToken(services.UserInfo{
		UserId: user.ID,
		Role:   user.Role,
	}, 60*24*3)
	if err != nil {
		response.ServerError(c)
		return
	}

	utils.LogInfo("Login success: user_id=%d, email=%s", user.ID, user.Email)
	response.Success(c, gin.H{
		"user_info":   toUserResponse(user),
		"accessToken": accessToken,
	})
}

// AuthGoogle signs a user in with a Google ID token, creating a student
// account on first sight.
func AuthGoogle(c *gin.Context) {
	var input dto.GoogleAuthInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	payload, err := services.VerifyGoogleIDToken(c.Request.Context(), input.IDToken)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	if email == "" {
		response.BadRequest(c, "Google token has no email claim.")
		return
	}
	email = strings.ToLower(email)

	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		user = models.User{
			Name:   name,
			Email:  email,
			Avatar: picture,
			Role:   constants.RoleStudent,
			Status: constants.UserStatusActive,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			response.ServerError(c)
			return
		}
	}

	if user.Status != constants.UserStatusActive {
		response.ForbiddenWithMessage(c, "Account is deactivated.")
		return
	}

	accessToken, err := services.GenerateToken(services.UserInfo{
		UserId: user.ID,
		Role:   user.Role,
	}, 60*24*3)
	if err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, gin.H{
		"user_info":   toUserResponse(user),
		"accessToken": accessToken,
	})
}

func Logout(c *gin.Context) {
	cookies := c.Request.Cookies()
	for _, cookie := range cookies {
		c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, cookie.HttpOnly)
	}

	response.Success(c, nil)
}

// GetProfile returns the authenticated user's account.
func GetProfile(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		response.NotFound(c)
		return
	}

	response.Success(c, toUserResponse(user))
}
