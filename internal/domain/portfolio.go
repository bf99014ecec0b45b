package domain

import "time"

// Asset types
const (
	AssetStock  = "stock"  // Equity share
	AssetCrypto = "crypto" // Cryptocurrency
	AssetETF    = "etf"    // Exchange-traded / index fund
)

// PortfolioOption Model - one entry in the shared asset catalog
type PortfolioOption struct {
	ID           uint    `gorm:"primaryKey" json:"id"`          // Primary key
	Name         string  `gorm:"not null" json:"name"`          // Display name
	Symbol       string  `gorm:"not null" json:"symbol"`        // Ticker symbol
	AssetType    string  `gorm:"not null" json:"asset_type"`    // Asset type: stock, crypto, etf
	RiskLevel    string  `gorm:"not null" json:"risk_level"`    // Risk level: low, medium, high
	Description  string  `json:"description"`                   // Short description
	CurrentPrice float64 `gorm:"default:0" json:"current_price"` // Mutable simulated market price
}

// PortfolioSelection Model - user x asset membership defining distribution targets
type PortfolioSelection struct {
	ID                uint            `gorm:"primaryKey" json:"id"`                          // Primary key
	UserID            uint            `gorm:"index;not null" json:"user_id"`                 // Foreign key to User
	PortfolioOptionID uint            `gorm:"not null" json:"portfolio_option_id"`           // Foreign key to PortfolioOption
	IsAutoRecommended bool            `gorm:"default:false" json:"is_auto_recommended"`      // Auto vs manual selection
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`              // Timestamp of creation
	PortfolioOption   PortfolioOption `gorm:"foreignKey:PortfolioOptionID" json:"portfolio_option"` // Selected asset
}
