package invest

import (
	"fmt"                       // Error wrapping
	"microvest/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Allocation describes one funded purchase to spread across a portfolio
type Allocation struct {
	User      *domain.User // Investing user
	Amount    float64      // Total amount to invest
	Source    string       // Funding origin: roundup, wallet, gateway
	PaymentID string       // Payment / funding identifier stamped on each row
}

// EnsureSelections returns the user's portfolio selections, materializing
// auto-recommended ones from the risk profile when none exist
func EnsureSelections(tx *gorm.DB, user *domain.User) ([]domain.PortfolioSelection, error) {
	var selections []domain.PortfolioSelection
	// Load existing selections with their assets
	if err := tx.Preload("PortfolioOption").Where("user_id = ?", user.ID).Find(&selections).Error; err != nil {
		return nil, err
	}
	if len(selections) > 0 {
		return selections, nil
	}
	// No selections: auto-select based on risk profile
	var catalog []domain.PortfolioOption
	if err := tx.Find(&catalog).Error; err != nil {
		return nil, err
	}
	recommended := Recommend(user.RiskProfile, catalog, DefaultRecommendCount)
	if len(recommended) == 0 {
		return nil, ErrNoSelections // Empty catalog, nothing to select
	}
	for _, option := range recommended {
		selection := domain.PortfolioSelection{
			UserID:            user.ID,   // Owner
			PortfolioOptionID: option.ID, // Recommended asset
			IsAutoRecommended: true,      // System-chosen, not user-chosen
		}
		if err := tx.Create(&selection).Error; err != nil {
			return nil, err
		}
		selection.PortfolioOption = option
		selections = append(selections, selection)
	}
	return selections, nil
}

// Allocate spends alloc.Amount evenly across the user's selections inside tx,
// creating one Investment per selection at its current price. Each part is
// rounded to 2 decimals independently; the rounding drift versus the original
// amount is accepted, not reconciled. A selected asset priced at 0 makes the
// whole allocation fail with nothing written.
func Allocate(tx *gorm.DB, alloc Allocation) ([]domain.Investment, error) {
	// Reject before any mutation
	if alloc.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	selections, err := EnsureSelections(tx, alloc.User)
	if err != nil {
		return nil, err
	}
	perSelection := Round2(alloc.Amount / float64(len(selections))) // Even split
	investments := make([]domain.Investment, 0, len(selections))
	for _, selection := range selections {
		price := selection.PortfolioOption.CurrentPrice
		// A zero price would make the unit count unbounded: asset is uninvestable
		if price <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrZeroPrice, selection.PortfolioOption.Symbol)
		}
		investment := domain.Investment{
			UserID:            alloc.User.ID,                // Owner
			PortfolioOptionID: selection.PortfolioOptionID,  // Purchased asset
			Amount:            perSelection,                 // Even share of the total
			Units:             Round6(perSelection / price), // Units at allocation-time price
			IsAutoRecommended: selection.IsAutoRecommended,  // Carried over from the selection
			Source:            alloc.Source,                 // Funding origin
			PaymentID:         alloc.PaymentID,              // Funding identifier
		}
		if err := tx.Create(&investment).Error; err != nil {
			return nil, err
		}
		investments = append(investments, investment)
	}
	return investments, nil
}
