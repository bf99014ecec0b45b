package domain

import "time"

// Transfer / deposit statuses
const (
	StatusPending = "pending" // Awaiting completion
	StatusSuccess = "success" // Completed
	StatusFailed  = "failed"  // Failed
)

// MoneyTransfer Model - a peer transfer out of the wallet
type MoneyTransfer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`             // Primary key
	UserID          uint      `gorm:"index;not null" json:"user_id"`    // Foreign key to User
	RecipientUPI    string    `json:"recipient_upi"`                    // Recipient UPI ID, optional
	RecipientMobile string    `json:"recipient_mobile"`                 // Recipient mobile number, optional
	RecipientName   string    `json:"recipient_name"`                   // Recipient display name
	Amount          float64   `gorm:"not null" json:"amount"`           // Transfer amount debited from wallet
	Status          string    `gorm:"default:pending" json:"status"`    // Status: pending, success, failed
	TransactionID   string    `json:"transaction_id"`                   // External transaction identifier
	Description     string    `json:"description"`                      // Optional description
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"` // Timestamp of creation
}
