package domain

import "time"

// Funding origins for an investment
const (
	SourceRoundup = "roundup" // Funded from accumulated round-ups
	SourceWallet  = "wallet"  // Funded from the wallet balance
	SourceGateway = "gateway" // Funded through the payment gateway
)

// Investment Model - one allocation record; rows accumulate per (user, asset)
type Investment struct {
	ID                uint            `gorm:"primaryKey" json:"id"`                                 // Primary key
	UserID            uint            `gorm:"index;not null" json:"user_id"`                        // Foreign key to User
	PortfolioOptionID uint            `gorm:"not null" json:"portfolio_option_id"`                  // Foreign key to PortfolioOption
	Amount            float64         `gorm:"not null" json:"amount"`                               // Currency spent on this allocation
	Units             float64         `gorm:"default:0" json:"units"`                               // Units purchased at allocation-time price
	IsAutoRecommended bool            `gorm:"default:false" json:"is_auto_recommended"`             // Whether the selection was auto-recommended
	Source            string          `gorm:"not null" json:"source"`                               // Funding origin: roundup, wallet, gateway
	PaymentID         string          `json:"payment_id"`                                           // Payment / funding identifier
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`                     // Timestamp of creation
	PortfolioOption   PortfolioOption `gorm:"foreignKey:PortfolioOptionID" json:"portfolio_option"` // Purchased asset
}
