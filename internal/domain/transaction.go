package domain

import "time"

// Transaction Model - a recorded purchase whose spare change is swept into savings
type Transaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`             // Primary key
	UserID        uint      `gorm:"index;not null" json:"user_id"`    // Foreign key to User
	Amount        float64   `gorm:"not null" json:"amount"`           // Amount spent
	RoundupAmount float64   `gorm:"not null" json:"roundup_amount"`   // Derived round-up amount
	Description   string    `json:"description"`                      // Optional description
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"` // Timestamp of creation
}
