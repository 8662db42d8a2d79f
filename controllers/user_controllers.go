package controllers

import (
	"strconv"

	"codereview/config"
	"codereview/constants"
	"codereview/dto"
	"codereview/middleware"
	"codereview/models"
	"codereview/response"
	"codereview/utils"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
)

// GetUsers lists accounts for the admin panel, filterable by role.
func GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", constants.RoleFromName(role))
	}
	if status := c.Query("status"); status != "" {
		if v, err := strconv.Atoi(status); err == nil {
			query = query.Where("status = ?", v)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.ServerError(c)
		return
	}

	var users []models.User
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		response.ServerError(c)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	response.SuccessWithPagination(c, items, page, limit, int(total))
}

// ChangeUserStatus activates or deactivates an account.
func ChangeUserStatus(c *gin.Context) {
	adminID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var input struct {
		UserID uint `json:"userId" binding:"required"`
		Status int  `json:"status" binding:"oneof=0 1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if input.UserID == adminID {
		response.BadRequest(c, "You cannot change your own status.")
		return
	}

	var user models.User
	if err := config.DB.First(&user, input.UserID).Error; err != nil {
		response.NotFound(c)
		return
	}

	if err := config.DB.Model(&user).Update("status", input.Status).Error; err != nil {
		response.ServerError(c)
		return
	}

	utils.LogInfo("User status changed: user_id=%d, status=%d, by_admin_id=%d",
		user.ID, input.Status, adminID)
	response.Success(c, toUserResponse(user))
}

// UploadAvatar stores a profile picture on cloudinary and saves its URL.
func UploadAvatar(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	if config.Cloudinary == nil {
		response.ServerErrorWithMessage(c, "Avatar uploads are not configured.")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded.")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Could not read uploaded file.")
		return
	}
	defer src.Close()

	resp, err := config.Cloudinary.Upload.Upload(c.Request.Context(), src, uploader.UploadParams{Folder: "avatars"})
	if err != nil {
		response.ServerErrorWithMessage(c, "Upload failed.")
		return
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		response.NotFound(c)
		return
	}
	if err := config.DB.Model(&user).Update("avatar", resp.SecureURL).Error; err != nil {
		response.ServerError(c)
		return
	}

	response.Success(c, gin.H{"url": resp.SecureURL})
}
