package controllers

import (
	"strconv"

	"codereview/config"
	"codereview/constants"
	"codereview/dto"
	"codereview/middleware"
	"codereview/models"
	"codereview/response"
	"codereview/services/notification"
	"codereview/utils"
	"codereview/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var notifier notification.Service

// SetNotifier wires the websocket broadcaster used after review creation.
func SetNotifier(s notification.Service) {
	notifier = s
}

func toReviewResponse(review models.Review) dto.ReviewResponse {
	annotations := make([]dto.AnnotationResponse, 0, len(review.Annotations))
	for _, a := range review.Annotations {
		annotations = append(annotations, dto.AnnotationResponse{
			ID:          a.ID,
			LineNumber:  a.LineNumber,
			CommentText: a.CommentText,
		})
	}

	return dto.ReviewResponse{
		ID:             review.ID,
		SubmissionID:   review.SubmissionID,
		OverallComment: review.OverallComment,
		Rating:         review.Rating,
		Reviewer: dto.UserInfo{
			ID:     review.Reviewer.ID,
			Name:   review.Reviewer.Name,
			Avatar: review.Reviewer.Avatar,
		},
		Annotations: annotations,
		CreatedAt:   review.CreatedAt,
	}
}

// CreateReview records a mentor's review of a submission, marks the
// submission reviewed and notifies its owner.
func CreateReview(c *gin.Context) {
	reviewerID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var input dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := validator.SanitizeText(input.OverallComment, validator.MaxCommentLength)
	if err != nil {
		respondAppError(c, err)
		return
	}
	if err := validator.ValidateRating(input.Rating); err != nil {
		respondAppError(c, err)
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, input.SubmissionID).Error; err != nil {
		response.NotFound(c)
		return
	}
	if submission.UserID == reviewerID {
		response.BadRequest(c, "You cannot review your own submission.")
		return
	}

	var existing int64
	err = config.DB.Model(&models.Review{}).
		Where("submission_id = ? AND reviewer_id = ?", input.SubmissionID, reviewerID).
		Count(&existing).Error
	if err != nil {
		response.ServerError(c)
		return
	}
	if existing > 0 {
		response.Conflict(c, "You have already reviewed this submission.")
		return
	}

	review := models.Review{
		SubmissionID:   submission.ID,
		ReviewerID:     reviewerID,
		OverallComment: comment,
		Rating:         input.Rating,
	}
	for _, a := range input.Annotations {
		text, err := validator.SanitizeText(a.CommentText, validator.MaxCommentLength)
		if err != nil {
			respondAppError(c, err)
			return
		}
		review.Annotations = append(review.Annotations, models.Annotation{
			LineNumber:  a.LineNumber,
			CommentText: text,
		})
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		if err := tx.Model(&submission).
			Update("status", constants.SubmissionStatusReviewed).Error; err != nil {
			return err
		}
		message := notification.ReviewMessage(submission.Title, input.Rating)
		return tx.Create(&models.Notification{
			UserID:  submission.UserID,
			Message: message,
		}).Error
	})
	if err != nil {
		response.ServerError(c)
		return
	}

	if notifier != nil {
		if err := notifier.SendMessage(notification.ReviewMessage(submission.Title, input.Rating)); err != nil {
			utils.LogError("Failed to broadcast review notification: %v", err)
		}
	}

	if err := config.DB.Preload("Reviewer").Preload("Annotations").First(&review, review.ID).Error; err != nil {
		response.ServerError(c)
		return
	}

	utils.LogInfo("Review created: review_id=%d, submission_id=%d, reviewer_id=%d",
		review.ID, submission.ID, reviewerID)
	response.Created(c, toReviewResponse(review))
}

// GetReviewsBySubmission lists the reviews of one submission.
func GetReviewsBySubmission(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid submission id.")
		return
	}

	var submission models.Submission
	if err := config.DB.First(&submission, id).Error; err != nil {
		response.NotFound(c)
		return
	}
	if role == constants.RoleStudent && submission.UserID != userID {
		response.Forbidden(c)
		return
	}

	var reviews []models.Review
	err = config.DB.
		Preload("Reviewer").
		Preload("Annotations").
		Where("submission_id = ?", submission.ID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		response.ServerError(c)
		return
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review))
	}

	response.Success(c, out)
}
