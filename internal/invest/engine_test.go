package invest

import (
	"errors"
	"microvest/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an in-memory store with the full schema
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Transaction{},
		&domain.PortfolioOption{},
		&domain.PortfolioSelection{},
		&domain.Investment{},
		&domain.Milestone{},
		&domain.UserMilestone{},
		&domain.MoneyTransfer{},
		&domain.WalletDeposit{},
	))
	return db
}

// testUser creates a user with the given balance and risk profile
func testUser(t *testing.T, db *gorm.DB, balance float64, risk string) *domain.User {
	t.Helper()
	user := &domain.User{Email: "saver@example.com", Password: "x", RiskProfile: risk, WalletBalance: balance}
	require.NoError(t, db.Create(user).Error)
	return user
}

// seedOptions creates a small catalog and returns it in insertion order
func seedOptions(t *testing.T, db *gorm.DB, options []domain.PortfolioOption) []domain.PortfolioOption {
	t.Helper()
	require.NoError(t, db.Create(&options).Error)
	return options
}

// selectOptions creates manual selections for the user
func selectOptions(t *testing.T, db *gorm.DB, userID uint, options []domain.PortfolioOption) {
	t.Helper()
	for _, option := range options {
		require.NoError(t, db.Create(&domain.PortfolioSelection{
			UserID:            userID,
			PortfolioOptionID: option.ID,
		}).Error)
	}
}

func TestAllocateEvenSplit(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	options := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 100},
		{Name: "B", Symbol: "BBB", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 250},
	})
	selectOptions(t, db, user.ID, options)

	var investments []domain.Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		investments, txErr = Allocate(tx, Allocation{
			User: user, Amount: 50, Source: domain.SourceRoundup, PaymentID: "ROUNDUP_TEST",
		})
		return txErr
	})
	require.NoError(t, err)
	require.Len(t, investments, 2)

	for _, inv := range investments {
		assert.InDelta(t, 25.00, inv.Amount, 1e-9)
		assert.Equal(t, domain.SourceRoundup, inv.Source)
		assert.Equal(t, "ROUNDUP_TEST", inv.PaymentID)
	}
	// units = per-selection amount / allocation-time price, 6 decimals
	assert.InDelta(t, 0.25, investments[0].Units, 1e-9)
	assert.InDelta(t, 0.1, investments[1].Units, 1e-9)
}

// Splitting into N rounded parts may drift from the original amount by at
// most N * 0.005; the drift is accepted, never reconciled.
func TestAllocateRoundingDrift(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	options := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 10},
		{Name: "B", Symbol: "BBB", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 10},
		{Name: "C", Symbol: "CCC", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 10},
	})
	selectOptions(t, db, user.ID, options)

	var investments []domain.Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		investments, txErr = Allocate(tx, Allocation{
			User: user, Amount: 100, Source: domain.SourceWallet, PaymentID: "WALLET_TEST",
		})
		return txErr
	})
	require.NoError(t, err)
	require.Len(t, investments, 3)

	var total float64
	for _, inv := range investments {
		assert.InDelta(t, 33.33, inv.Amount, 1e-9) // each part rounded independently
		total += inv.Amount
	}
	assert.InDelta(t, 99.99, total, 1e-9)
	assert.LessOrEqual(t, 100.0-total, 3*0.005+1e-9)
}

func TestAllocateRejectsNonPositiveAmount(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := Allocate(tx, Allocation{User: user, Amount: 0, Source: domain.SourceRoundup})
		return txErr
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var count int64
	require.NoError(t, db.Model(&domain.Investment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAllocateZeroPriceFailsWithNothingWritten(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	options := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 100},
		{Name: "B", Symbol: "BBB", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 0},
	})
	selectOptions(t, db, user.ID, options)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := Allocate(tx, Allocation{User: user, Amount: 50, Source: domain.SourceRoundup})
		return txErr
	})
	assert.ErrorIs(t, err, ErrZeroPrice)

	// The transaction rolled back: no partial allocation survives
	var count int64
	require.NoError(t, db.Model(&domain.Investment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAllocateAutoRecommendsWhenNoSelections(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskHigh)
	seedOptions(t, db, []domain.PortfolioOption{
		{Name: "Low", Symbol: "LOW", AssetType: domain.AssetStock, RiskLevel: domain.RiskLow, CurrentPrice: 10},
		{Name: "High1", Symbol: "HI1", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, CurrentPrice: 20},
		{Name: "High2", Symbol: "HI2", AssetType: domain.AssetCrypto, RiskLevel: domain.RiskHigh, CurrentPrice: 40},
		{Name: "Med", Symbol: "MED", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 30},
	})

	var investments []domain.Investment
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		investments, txErr = Allocate(tx, Allocation{
			User: user, Amount: 90, Source: domain.SourceRoundup, PaymentID: "ROUNDUP_AUTO",
		})
		return txErr
	})
	require.NoError(t, err)
	require.Len(t, investments, DefaultRecommendCount)

	// Auto-recommended selections were materialized and flagged
	var selections []domain.PortfolioSelection
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&selections).Error)
	require.Len(t, selections, DefaultRecommendCount)
	for _, selection := range selections {
		assert.True(t, selection.IsAutoRecommended)
	}
	for _, inv := range investments {
		assert.True(t, inv.IsAutoRecommended)
		assert.InDelta(t, 30.00, inv.Amount, 1e-9)
	}
}

func TestAvailableRoundups(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	// Accrue 50 in round-ups across two transactions
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 9.30, RoundupAmount: 20}).Error)
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 4.50, RoundupAmount: 30}).Error)

	available, err := AvailableRoundups(db, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, available, 1e-9)

	// Roundup-origin and gateway-origin spending both drain the pool
	option := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 10},
	})[0]
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 15, Units: 1.5, Source: domain.SourceRoundup}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 10, Units: 1, Source: domain.SourceGateway}).Error)
	// Wallet-origin spending does not
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 100, Units: 10, Source: domain.SourceWallet}).Error)

	available, err = AvailableRoundups(db, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, available, 1e-9)
}

func TestCheckRoundupFundsShortfall(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 9.30, RoundupAmount: 20}).Error)

	require.NoError(t, CheckRoundupFunds(db, user.ID, 20))

	err := CheckRoundupFunds(db, user.ID, 25)
	var shortfall *InsufficientFundsError
	require.True(t, errors.As(err, &shortfall))
	assert.InDelta(t, 20, shortfall.Available, 1e-9)
	assert.InDelta(t, 25, shortfall.Needed, 1e-9)
}

func TestDebitWalletInsufficientLeavesBalanceUntouched(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 100, domain.RiskMedium)

	err := db.Transaction(func(tx *gorm.DB) error {
		return DebitWallet(tx, user.ID, 150)
	})
	var shortfall *InsufficientFundsError
	require.True(t, errors.As(err, &shortfall))
	assert.InDelta(t, 100, shortfall.Available, 1e-9)
	assert.InDelta(t, 150, shortfall.Needed, 1e-9)

	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 100, fresh.WalletBalance, 1e-9)
}

func TestDebitAndCreditWallet(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 100, domain.RiskMedium)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return DebitWallet(tx, user.ID, 40)
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return CreditWallet(tx, user.ID, 15)
	}))

	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 75, fresh.WalletBalance, 1e-9)
}

// A roundup-funded invest that fits the pool leaves it non-negative; one
// that would overdraw it is rejected with no effect.
func TestRoundupPoolNeverGoesNegative(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 1, RoundupAmount: 50}).Error)
	options := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 10},
		{Name: "B", Symbol: "BBB", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 20},
	})
	selectOptions(t, db, user.ID, options)

	// First invest consumes the whole pool
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := CheckRoundupFunds(tx, user.ID, 50); err != nil {
			return err
		}
		_, err := Allocate(tx, Allocation{User: user, Amount: 50, Source: domain.SourceRoundup, PaymentID: "ROUNDUP_1"})
		return err
	}))
	available, err := AvailableRoundups(db, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0, available, 1e-9)

	// A second invest is rejected entirely
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := CheckRoundupFunds(tx, user.ID, 1); err != nil {
			return err
		}
		_, txErr := Allocate(tx, Allocation{User: user, Amount: 1, Source: domain.SourceRoundup, PaymentID: "ROUNDUP_2"})
		return txErr
	})
	var shortfall *InsufficientFundsError
	require.True(t, errors.As(err, &shortfall))

	available, err = AvailableRoundups(db, user.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, available, 0.0)
}

func TestHoldingsAggregation(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	option := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 120},
	})[0]
	// Two buys at an earlier price of 100 (dollar-cost averaging)
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 50, Units: 0.5, Source: domain.SourceRoundup}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 30, Units: 0.3, Source: domain.SourceWallet}).Error)

	holdings, err := Holdings(db, user.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)

	holding := holdings[0]
	assert.InDelta(t, 80, holding.AmountInvested, 1e-9)
	assert.InDelta(t, 0.8, holding.Units, 1e-9)
	assert.InDelta(t, 96, holding.CurrentValue, 1e-9) // 0.8 * 120
	assert.InDelta(t, 16, holding.ProfitLoss, 1e-9)
	assert.InDelta(t, 20, holding.ProfitLossPct, 1e-9)
}

func TestHoldingsZeroInvestedPercentage(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	option := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 10},
	})[0]
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 0, Units: 0, Source: domain.SourceRoundup}).Error)

	holdings, err := Holdings(db, user.ID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Zero(t, holdings[0].ProfitLossPct) // no division by zero
}

func TestExitCreditsCurrentValueAndDeletesRows(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 10, domain.RiskMedium)
	option := seedOptions(t, db, []domain.PortfolioOption{
		{Name: "A", Symbol: "AAA", AssetType: domain.AssetStock, RiskLevel: domain.RiskMedium, CurrentPrice: 110},
	})[0]
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 60, Units: 0.6, Source: domain.SourceRoundup}).Error)
	require.NoError(t, db.Create(&domain.Investment{UserID: user.ID, PortfolioOptionID: option.ID, Amount: 40, Units: 0.4, Source: domain.SourceWallet}).Error)

	var result *ExitResult
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = Exit(tx, user, option.ID)
		return txErr
	}))

	// Credited at current price, not at cost
	assert.InDelta(t, 110, result.CurrentValue, 1e-9) // 1.0 * 110
	assert.InDelta(t, 100, result.TotalInvested, 1e-9)
	assert.InDelta(t, 10, result.ProfitLoss, 1e-9)

	var fresh domain.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.InDelta(t, 120, fresh.WalletBalance, 1e-9) // 10 + 110

	// All-or-nothing: zero rows left for this asset
	var count int64
	require.NoError(t, db.Model(&domain.Investment{}).
		Where("user_id = ? AND portfolio_option_id = ?", user.ID, option.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestExitUnknownAssetNotFound(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := Exit(tx, user, 999)
		return txErr
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAwardMilestonesOncePerUser(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, 0, domain.RiskMedium)
	require.NoError(t, db.Create(&[]domain.Milestone{
		{Name: "First Steps", Threshold: 1},
		{Name: "Penny Saver", Threshold: 10},
		{Name: "Growing Wealth", Threshold: 100},
	}).Error)
	require.NoError(t, db.Create(&domain.Transaction{UserID: user.ID, Amount: 9.30, RoundupAmount: 12}).Error)

	awarded, err := AwardMilestones(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, awarded, 2) // thresholds 1 and 10 crossed, 100 not

	// Repeat crossings never duplicate an award
	awarded, err = AwardMilestones(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	var count int64
	require.NoError(t, db.Model(&domain.UserMilestone{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
