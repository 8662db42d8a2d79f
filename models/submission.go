package models

import "time"

type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CodeContent string    `gorm:"type:text;not null" json:"codeContent"`
	Language    string    `gorm:"index;not null" json:"language"`
	Status      string    `gorm:"index;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	User    User     `gorm:"foreignKey:UserID" json:"user"`
	Tags    []Tag    `gorm:"many2many:submission_tags" json:"tags,omitempty"`
	Reviews []Review `gorm:"foreignKey:SubmissionID" json:"reviews,omitempty"`
}
