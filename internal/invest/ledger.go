package invest

import (
	"microvest/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// roundupSources are the funding origins that drain the roundup pool.
// Gateway-funded purchases are settled against accumulated round-ups too.
var roundupSources = []string{domain.SourceRoundup, domain.SourceGateway}

// TotalRoundups sums the round-up amounts accrued by a user's transactions
func TotalRoundups(db *gorm.DB, userID uint) (float64, error) {
	var total float64
	err := db.Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(roundup_amount), 0)").
		Scan(&total).Error
	return total, err
}

// InvestedFromRoundups sums investment amounts drawn from the roundup pool
func InvestedFromRoundups(db *gorm.DB, userID uint) (float64, error) {
	var total float64
	err := db.Model(&domain.Investment{}).
		Where("user_id = ? AND source IN ?", userID, roundupSources).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// InvestedFromWallet sums investment amounts funded from the wallet balance
func InvestedFromWallet(db *gorm.DB, userID uint) (float64, error) {
	var total float64
	err := db.Model(&domain.Investment{}).
		Where("user_id = ? AND source = ?", userID, domain.SourceWallet).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// AvailableRoundups derives the roundup pool that is still investable:
// everything accrued minus everything already invested from the pool
func AvailableRoundups(db *gorm.DB, userID uint) (float64, error) {
	accrued, err := TotalRoundups(db, userID)
	if err != nil {
		return 0, err
	}
	spent, err := InvestedFromRoundups(db, userID)
	if err != nil {
		return 0, err
	}
	return Round2(accrued - spent), nil
}

// CheckRoundupFunds verifies the roundup pool covers needed. Must run inside
// the same transaction as the investment creation that follows it.
func CheckRoundupFunds(db *gorm.DB, userID uint, needed float64) error {
	available, err := AvailableRoundups(db, userID)
	if err != nil {
		return err
	}
	// Reject when the pool is short
	if needed > available {
		return &InsufficientFundsError{Source: "roundups", Available: available, Needed: needed}
	}
	return nil
}

// DebitWallet checks the live wallet balance and debits it. Must run inside
// the same transaction as the spend it funds, so the check and the debit
// see the same balance.
func DebitWallet(tx *gorm.DB, userID uint, amount float64) error {
	var user domain.User
	// Re-read the balance inside the transaction
	if err := tx.First(&user, userID).Error; err != nil {
		return err
	}
	// Reject when the wallet is short
	if amount > user.WalletBalance {
		return &InsufficientFundsError{Source: "wallet balance", Available: user.WalletBalance, Needed: amount}
	}
	// Deduct from the wallet
	return tx.Model(&user).Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount)).Error
}

// CreditWallet adds amount to the user's wallet balance
func CreditWallet(tx *gorm.DB, userID uint, amount float64) error {
	return tx.Model(&domain.User{}).
		Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount)).Error
}
