package domain

import "time"

// InvestmentOrder Model - a gateway order opened to fund an investment
// directly; the recorded amount is allocated on verification
type InvestmentOrder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`             // Primary key
	UserID    uint      `gorm:"index;not null" json:"user_id"`    // Foreign key to User
	Amount    float64   `gorm:"not null" json:"amount"`           // Amount to invest
	OrderID   string    `gorm:"index" json:"order_id"`            // Gateway order identifier
	PaymentID string    `json:"payment_id"`                       // Gateway payment identifier, set on verification
	Status    string    `gorm:"default:pending" json:"status"`    // Status: pending, success, failed
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"` // Timestamp of creation
}
