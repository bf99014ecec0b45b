package domain

import "time"

// Deposit methods
const (
	MethodUPI        = "upi"        // Unified Payments Interface
	MethodCard       = "card"       // Debit / credit card
	MethodNetbanking = "netbanking" // Net banking
	MethodWallet     = "wallet"     // External wallet
)

// WalletDeposit Model - pending -> success/failed record linked to a gateway order
type WalletDeposit struct {
	ID          uint      `gorm:"primaryKey" json:"id"`             // Primary key
	UserID      uint      `gorm:"index;not null" json:"user_id"`    // Foreign key to User
	Amount      float64   `gorm:"not null" json:"amount"`           // Deposit amount
	Method      string    `gorm:"default:upi" json:"method"`        // Method: upi, card, netbanking, wallet
	PaymentID   string    `json:"payment_id"`                       // Gateway payment identifier
	OrderID     string    `gorm:"index" json:"order_id"`            // Gateway order identifier
	Status      string    `gorm:"default:pending" json:"status"`    // Status: pending, success, failed
	Description string    `json:"description"`                      // Optional description
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"` // Timestamp of creation
}
