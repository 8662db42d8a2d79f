package dto

import "time"

type CreateSubmissionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	CodeContent string   `json:"codeContent" binding:"required"`
	Language    string   `json:"language" binding:"required,language"`
	Tags        []string `json:"tags"`
}

type UpdateSubmissionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CodeContent *string `json:"codeContent"`
}

// SubmissionListItem is one row of the submission listing. Owner is only
// filled in for mentor/admin callers.
type SubmissionListItem struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Status      string    `json:"status"`
	ReviewCount int       `json:"reviewCount"`
	CreatedAt   time.Time `json:"createdAt"`
	User        *UserInfo `json:"user,omitempty"`
}

type UserInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type SubmissionDetail struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	CodeContent string           `json:"codeContent"`
	Language    string           `json:"language"`
	Status      string           `json:"status"`
	Tags        []string         `json:"tags"`
	User        UserInfo         `json:"user"`
	Reviews     []ReviewResponse `json:"reviews"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
