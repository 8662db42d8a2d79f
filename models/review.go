package models

import "time"

type Review struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SubmissionID   uint      `gorm:"index;not null" json:"submissionId"`
	ReviewerID     uint      `gorm:"index;not null" json:"reviewerId"`
	OverallComment string    `gorm:"type:text" json:"overallComment"`
	Rating         int       `gorm:"not null" json:"rating"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Reviewer    User         `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	Annotations []Annotation `gorm:"foreignKey:ReviewID" json:"annotations,omitempty"`
}
