package invest

import (
	"microvest/internal/domain" // Importing domain models
	"time"                      // First-investment timestamps

	"gorm.io/gorm" // GORM ORM library
)

// Holding is the read-side profit/loss projection for one asset
type Holding struct {
	PortfolioOptionID uint      `json:"portfolio_option_id"`    // Asset identifier
	Name              string    `json:"portfolio_name"`         // Asset display name
	Symbol            string    `json:"portfolio_symbol"`       // Ticker symbol
	AssetType         string    `json:"asset_type"`             // Asset type
	AmountInvested    float64   `json:"amount_invested"`        // Sum of amounts across rows
	Units             float64   `json:"units"`                  // Sum of units across rows
	CurrentPrice      float64   `json:"current_price"`          // Price at read time
	CurrentValue      float64   `json:"current_value"`          // Units x current price
	ProfitLoss        float64   `json:"profit_loss"`            // Value minus invested
	ProfitLossPct     float64   `json:"profit_loss_percentage"` // P&L as a percentage of invested
	FirstInvestedAt   time.Time `json:"created_at"`             // Oldest row's timestamp
}

// Holdings groups a user's investments by asset and computes P&L against the
// current price. Pure read-side projection with no side effects; rows for an
// asset accumulate over time (dollar-cost averaging) and are summed here.
func Holdings(db *gorm.DB, userID uint) ([]Holding, error) {
	var investments []domain.Investment
	// Load all rows with their assets, oldest first so the first row per
	// asset carries the first-investment timestamp
	if err := db.Preload("PortfolioOption").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&investments).Error; err != nil {
		return nil, err
	}
	grouped := make(map[uint]*Holding)  // Per-asset accumulator
	order := make([]uint, 0)            // First-seen asset order
	for _, inv := range investments {
		holding, ok := grouped[inv.PortfolioOptionID]
		if !ok {
			holding = &Holding{
				PortfolioOptionID: inv.PortfolioOptionID,           // Asset identifier
				Name:              inv.PortfolioOption.Name,         // Display name
				Symbol:            inv.PortfolioOption.Symbol,       // Ticker symbol
				AssetType:         inv.PortfolioOption.AssetType,    // Asset type
				CurrentPrice:      inv.PortfolioOption.CurrentPrice, // Price at read time
				FirstInvestedAt:   inv.CreatedAt,                    // Oldest row
			}
			grouped[inv.PortfolioOptionID] = holding
			order = append(order, inv.PortfolioOptionID)
		}
		holding.AmountInvested += inv.Amount // Accumulate spend
		holding.Units += inv.Units           // Accumulate units
	}
	holdings := make([]Holding, 0, len(order))
	for _, optionID := range order {
		holding := grouped[optionID]
		holding.CurrentValue = holding.Units * holding.CurrentPrice          // Value at current price
		holding.ProfitLoss = holding.CurrentValue - holding.AmountInvested   // Gain or loss
		if holding.AmountInvested > 0 {
			holding.ProfitLossPct = holding.ProfitLoss / holding.AmountInvested * 100
		}
		// Round the projection for display
		holding.AmountInvested = Round2(holding.AmountInvested)
		holding.Units = Round6(holding.Units)
		holding.CurrentPrice = Round2(holding.CurrentPrice)
		holding.CurrentValue = Round2(holding.CurrentValue)
		holding.ProfitLoss = Round2(holding.ProfitLoss)
		holding.ProfitLossPct = Round2(holding.ProfitLossPct)
		holdings = append(holdings, *holding)
	}
	return holdings, nil
}

// ExitResult summarizes an all-or-nothing liquidation of one asset
type ExitResult struct {
	TotalInvested float64 `json:"total_invested"`     // Sum of amounts liquidated
	CurrentValue  float64 `json:"current_value"`      // Units x price, credited to wallet
	ProfitLoss    float64 `json:"profit_loss"`        // Value minus invested
	Credited      float64 `json:"credited_to_wallet"` // Amount credited
}

// Exit liquidates every investment row a user holds in one asset: the current
// value is credited to the wallet and all rows are deleted. Partial exits are
// not supported. Must run inside a transaction.
func Exit(tx *gorm.DB, user *domain.User, optionID uint) (*ExitResult, error) {
	var investments []domain.Investment
	// Load all rows for this (user, asset) pair
	if err := tx.Preload("PortfolioOption").
		Where("user_id = ? AND portfolio_option_id = ?", user.ID, optionID).
		Find(&investments).Error; err != nil {
		return nil, err
	}
	if len(investments) == 0 {
		return nil, ErrNotFound // Nothing to exit
	}
	var totalUnits, totalInvested float64
	for _, inv := range investments {
		totalUnits += inv.Units
		totalInvested += inv.Amount
	}
	currentPrice := investments[0].PortfolioOption.CurrentPrice
	currentValue := Round2(totalUnits * currentPrice) // Credited at current price, not cost
	// Credit the wallet with the liquidation value
	if err := CreditWallet(tx, user.ID, currentValue); err != nil {
		return nil, err
	}
	// Delete every row for this asset
	if err := tx.Where("user_id = ? AND portfolio_option_id = ?", user.ID, optionID).
		Delete(&domain.Investment{}).Error; err != nil {
		return nil, err
	}
	return &ExitResult{
		TotalInvested: Round2(totalInvested),               // Liquidated spend
		CurrentValue:  currentValue,                        // Liquidation value
		ProfitLoss:    Round2(currentValue - totalInvested), // Realized gain or loss
		Credited:      currentValue,                        // Credited to wallet
	}, nil
}
