package domain

import "time"

// Risk profiles
const (
	RiskLow    = "low"    // Conservative investor
	RiskMedium = "medium" // Balanced investor
	RiskHigh   = "high"   // Aggressive investor
)

// User Model
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                     // Primary key
	Email         string    `gorm:"unique;not null" json:"email"`             // Unique email address
	Password      string    `gorm:"not null" json:"-"`                        // Hashed password
	Role          string    `gorm:"default:user" json:"role"`                 // Role: user or admin
	RiskProfile   string    `gorm:"default:medium" json:"risk_profile"`       // Risk profile: low, medium, high
	WalletBalance float64   `gorm:"not null;default:0" json:"wallet_balance"` // Wallet balance, never negative
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`         // Timestamp of creation
}
