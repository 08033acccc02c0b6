package models

import "time"

// ToolUsage tracks per-user assessment tool activity. One row per user,
// incremented as sessions start and complete.
type ToolUsage struct {
	UserID               string    `gorm:"primaryKey" json:"user_id"`
	AssessmentsStarted   int       `gorm:"default:0" json:"assessments_started"`
	AssessmentsCompleted int       `gorm:"default:0" json:"assessments_completed"`
	CreatedAt            time.Time `json:"created_at"` // Automatically managed by GORM
	UpdatedAt            time.Time `json:"updated_at"` // Automatically managed by GORM
}

// TableName specifies the table name for ToolUsage model.
func (ToolUsage) TableName() string {
	return "tool_usages"
}
