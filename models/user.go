package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `json:"-"`
	Avatar    string    `json:"avatar"`
	Role      int       `gorm:"default:0" json:"role"`
	Status    int       `gorm:"default:1" json:"status"`

	Submissions []Submission      `gorm:"foreignKey:UserID" json:"submissions,omitempty"`
	Reviews     []Review          `gorm:"foreignKey:ReviewerID" json:"reviews,omitempty"`
	AIUsage     []AIAnalysisUsage `gorm:"foreignKey:UserID" json:"-"`
}
