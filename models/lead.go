package models

import (
	"time"

	"gorm.io/gorm"
)

// CaptureLevel is the progressive lead-qualification tier.
type CaptureLevel int

const (
	CaptureLevelEmail   CaptureLevel = 1 // Email only
	CaptureLevelPhone   CaptureLevel = 2 // Email + phone
	CaptureLevelProfile CaptureLevel = 3 // Full profile; unlocks soft membership
)

// Lead represents a captured prospect moving through the funnel.
// CaptureLevel only ever moves up; downgrades are not allowed.
type Lead struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string         `json:"phone,omitempty"`
	FullName     string         `json:"full_name,omitempty"`
	Goal         string         `gorm:"type:text" json:"goal,omitempty"` // What the lead wants to achieve
	Source       string         `gorm:"index" json:"source,omitempty"`   // Page or tool that captured the lead
	CaptureLevel CaptureLevel   `gorm:"default:1;not null" json:"capture_level"`
	IsSoftMember bool           `gorm:"default:false" json:"is_soft_member"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // For soft deletes
}

// TableName specifies the table name for the Lead model.
func (Lead) TableName() string {
	return "leads"
}
