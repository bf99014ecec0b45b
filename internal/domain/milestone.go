package domain

import "time"

// Milestone Model - global savings threshold with a badge
type Milestone struct {
	ID          uint    `gorm:"primaryKey" json:"id"`   // Primary key
	Name        string  `gorm:"not null" json:"name"`   // Badge name
	Description string  `json:"description"`            // What the badge rewards
	Threshold   float64 `gorm:"not null" json:"threshold"` // Cumulative round-up savings needed
	BadgeIcon   string  `json:"badge_icon"`             // Emoji badge
}

// UserMilestone Model - marks a milestone as achieved, once per user per milestone
type UserMilestone struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                                    // Primary key
	UserID      uint      `gorm:"index;not null;uniqueIndex:idx_user_milestone" json:"user_id"` // Foreign key to User
	MilestoneID uint      `gorm:"not null;uniqueIndex:idx_user_milestone" json:"milestone_id"`  // Foreign key to Milestone
	AchievedAt  time.Time `gorm:"autoCreateTime" json:"achieved_at"`                       // Timestamp of achievement
}
