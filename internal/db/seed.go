package db

import (
	"microvest/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/gorm" // GORM ORM library
)

// Seed inserts the shared asset catalog and the milestone ladder when the
// tables are empty. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	var optionCount int64
	if err := db.Model(&domain.PortfolioOption{}).Count(&optionCount).Error; err != nil {
		return err
	}
	if optionCount == 0 {
		options := []domain.PortfolioOption{
			// Blue Chip Stocks (Low Risk)
			{Name: "Reliance Industries", Symbol: "RELIANCE", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, Description: "Leading conglomerate - Oil, Retail, Telecom", CurrentPrice: 2450.50},
			{Name: "Infosys", Symbol: "INFY", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, Description: "Global IT Services & Consulting", CurrentPrice: 1450.75},
			{Name: "HDFC Bank", Symbol: "HDFCBANK", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, Description: "India's largest private bank", CurrentPrice: 1650.30},
			{Name: "TCS", Symbol: "TCS", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, Description: "Tata Consultancy Services - IT Giant", CurrentPrice: 3650.80},
			{Name: "ICICI Bank", Symbol: "ICICIBANK", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, Description: "Leading private sector bank", CurrentPrice: 1050.20},
			{Name: "Wipro", Symbol: "WIPRO", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, Description: "IT Services & Consulting", CurrentPrice: 445.60},

			// Mid Cap Stocks (Medium Risk)
			{Name: "Asian Paints", Symbol: "ASIANPAINT", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "Leading paint manufacturer", CurrentPrice: 2950.40},
			{Name: "Bajaj Finance", Symbol: "BAJFINANCE", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "NBFC - Consumer finance leader", CurrentPrice: 6850.90},
			{Name: "Titan Company", Symbol: "TITAN", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "Jewelry & Watches leader", CurrentPrice: 3340.75},
			{Name: "Kotak Mahindra Bank", Symbol: "KOTAKBANK", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "Private sector banking", CurrentPrice: 1780.50},
			{Name: "HCL Technologies", Symbol: "HCLTECH", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "IT Services & Products", CurrentPrice: 1520.30},
			{Name: "Mahindra & Mahindra", Symbol: "M&M", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "Auto & Farm Equipment", CurrentPrice: 1890.60},

			// Growth Stocks (High Risk)
			{Name: "Adani Green Energy", Symbol: "ADANIGREEN", AssetType: domain.AssetStock, RiskLevel: domain.RiskHigh, Description: "Renewable energy leader", CurrentPrice: 1120.40},
			{Name: "Zomato", Symbol: "ZOMATO", AssetType: domain.AssetStock, RiskLevel: domain.RiskHigh, Description: "Food delivery & dining", CurrentPrice: 145.80},
			{Name: "Paytm", Symbol: "PAYTM", AssetType: domain.AssetStock, RiskLevel: domain.RiskHigh, Description: "Digital payments platform", CurrentPrice: 890.20},
			{Name: "Adani Ports", Symbol: "ADANIPORTS", AssetType: domain.AssetStock, RiskLevel: domain.RiskHigh, Description: "Port infrastructure", CurrentPrice: 1250.70},
			{Name: "LIC", Symbol: "LICI", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, Description: "Life Insurance Corporation", CurrentPrice: 920.50},

			// Cryptocurrencies (High Risk)
			{Name: "Bitcoin", Symbol: "BTC", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "Leading cryptocurrency - Digital gold", CurrentPrice: 4500000.00},
			{Name: "Ethereum", Symbol: "ETH", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "Smart contracts & DeFi platform", CurrentPrice: 280000.00},
			{Name: "Solana", Symbol: "SOL", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "High-speed blockchain", CurrentPrice: 12500.00},
			{Name: "Cardano", Symbol: "ADA", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "Proof-of-stake blockchain", CurrentPrice: 45.50},
			{Name: "Polygon", Symbol: "MATIC", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "Ethereum scaling solution", CurrentPrice: 65.80},
			{Name: "Ripple", Symbol: "XRP", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "Cross-border payments", CurrentPrice: 52.30},
			{Name: "Polkadot", Symbol: "DOT", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, Description: "Multi-chain protocol", CurrentPrice: 520.40},

			// Index ETFs / Mutual Funds (Low Risk)
			{Name: "Nifty 50 ETF", Symbol: "NIFTYBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskLow, Description: "Tracks Nifty 50 index - Top 50 companies", CurrentPrice: 225.60},
			{Name: "Bank Nifty ETF", Symbol: "BANKBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskMedium, Description: "Banking sector index fund", CurrentPrice: 425.30},
			{Name: "Gold ETF", Symbol: "GOLDBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskLow, Description: "Gold price tracking ETF", CurrentPrice: 58.40},
			{Name: "Nifty Next 50 ETF", Symbol: "JUNIORBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskMedium, Description: "Next 50 large companies", CurrentPrice: 650.80},
			{Name: "IT Sector ETF", Symbol: "ITBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskMedium, Description: "IT sector focused fund", CurrentPrice: 285.90},
			{Name: "Pharma ETF", Symbol: "PHARMABEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskMedium, Description: "Pharmaceutical sector fund", CurrentPrice: 890.50},
			{Name: "Infrastructure ETF", Symbol: "INFRABEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskMedium, Description: "Infrastructure sector fund", CurrentPrice: 125.70},
			{Name: "Consumption ETF", Symbol: "CONSUMERBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskMedium, Description: "Consumer goods sector", CurrentPrice: 178.30},

			// Debt/Hybrid Funds (Low Risk)
			{Name: "Liquid Fund", Symbol: "LIQUIDBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskLow, Description: "Short-term debt fund - Very safe", CurrentPrice: 1000.50},
			{Name: "Corporate Bond Fund", Symbol: "CORPBOND", AssetType: domain.AssetETF, RiskLevel: domain.RiskLow, Description: "High-quality corporate bonds", CurrentPrice: 52.80},
			{Name: "Government Securities", Symbol: "GILTBEES", AssetType: domain.AssetETF, RiskLevel: domain.RiskLow, Description: "Government bonds - Ultra safe", CurrentPrice: 48.60},
		}
		if err := db.Create(&options).Error; err != nil {
			return err
		}
		logrus.WithField("count", len(options)).Info("Portfolio catalog seeded")
	}

	var milestoneCount int64
	if err := db.Model(&domain.Milestone{}).Count(&milestoneCount).Error; err != nil {
		return err
	}
	if milestoneCount == 0 {
		milestones := []domain.Milestone{
			{Name: "First Steps", Description: "Made your first transaction!", Threshold: 1.0, BadgeIcon: "🎯"},
			{Name: "Penny Saver", Description: "Saved ₹10 in round-ups", Threshold: 10.0, BadgeIcon: "💰"},
			{Name: "Growing Wealth", Description: "Saved ₹100 in round-ups", Threshold: 100.0, BadgeIcon: "📈"},
			{Name: "Investment Pro", Description: "Saved ₹500 in round-ups", Threshold: 500.0, BadgeIcon: "🏆"},
			{Name: "Wealth Builder", Description: "Saved ₹1000 in round-ups", Threshold: 1000.0, BadgeIcon: "💎"},
		}
		if err := db.Create(&milestones).Error; err != nil {
			return err
		}
		logrus.WithField("count", len(milestones)).Info("Milestones seeded")
	}
	return nil
}
