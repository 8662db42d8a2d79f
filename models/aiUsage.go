package models

import "time"

// AIAnalysisUsage is the per-user, per-day ledger behind the AI analysis
// quota. At most one row exists per (user_id, date); rows are never deleted.
type AIAnalysisUsage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ai_usage_user_date" json:"userId"`
	Date      string    `gorm:"type:date;not null;uniqueIndex:idx_ai_usage_user_date" json:"date"`
	Count     int       `gorm:"default:0;not null" json:"count"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (AIAnalysisUsage) TableName() string {
	return "ai_analysis_usage"
}
