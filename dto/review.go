package dto

import "time"

type CreateReviewRequest struct {
	SubmissionID   uint                    `json:"submissionId" binding:"required"`
	OverallComment string                  `json:"overallComment" binding:"required"`
	Rating         int                     `json:"rating" binding:"required,min=1,max=10"`
	Annotations    []CreateAnnotationInput `json:"annotations"`
}

type CreateAnnotationInput struct {
	LineNumber  int    `json:"lineNumber" binding:"required,min=1"`
	CommentText string `json:"commentText" binding:"required"`
}

type ReviewResponse struct {
	ID             uint                 `json:"id"`
	SubmissionID   uint                 `json:"submissionId"`
	OverallComment string               `json:"overallComment"`
	Rating         int                  `json:"rating"`
	Reviewer       UserInfo             `json:"reviewer"`
	Annotations    []AnnotationResponse `json:"annotations"`
	CreatedAt      time.Time            `json:"createdAt"`
}

type AnnotationResponse struct {
	ID          uint   `json:"id"`
	LineNumber  int    `json:"lineNumber"`
	CommentText string `json:"commentText"`
}
