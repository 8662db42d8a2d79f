package models

import "time"

type Annotation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ReviewID    uint      `gorm:"index;not null" json:"reviewId"`
	LineNumber  int       `gorm:"not null" json:"lineNumber"`
	CommentText string    `gorm:"type:text;not null" json:"commentText"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}
