package api

import (
	"errors"                    // Error classification
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/invest" // Ledger and allocation engine
	"net/http"                  // HTTP status codes
	"strconv"                   // String conversion
	"strings"                   // Identifier formatting

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Funding identifiers
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// InvestRequest funds an allocation from round-ups or the wallet
type InvestRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Amount to invest
	Source string  `json:"source"`                         // "roundups" (default) or "wallet"
}

// newFundingID builds a short human-readable funding identifier
func newFundingID(prefix string) string {
	return prefix + "_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// writeInvestError maps engine errors onto HTTP responses
func writeInvestError(c *gin.Context, err error) {
	var shortfall *invest.InsufficientFundsError
	switch {
	case errors.As(err, &shortfall):
		// No partial effect; report available vs needed
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds. Available: ₹" +
			strconv.FormatFloat(shortfall.Available, 'f', 2, 64) + ", Need: ₹" +
			strconv.FormatFloat(shortfall.Needed, 'f', 2, 64)})
	case errors.Is(err, invest.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than 0"})
	case errors.Is(err, invest.ErrZeroPrice):
		// A selected asset with no price is temporarily uninvestable
		c.JSON(http.StatusBadRequest, gin.H{"error": "A selected asset has no price right now"})
	case errors.Is(err, invest.ErrNoSelections):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No portfolio selected"})
	case errors.Is(err, invest.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No investments found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Investment failed"})
	}
}

// InvestHandler invests from roundup savings or wallet balance: the
// sufficiency check, the debit and the allocation run in one transaction
func InvestHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req InvestRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than 0"})
			return
		}
		var investments []domain.Investment
		// Check availability, debit and allocate as one atomic unit
		err := db.Transaction(func(tx *gorm.DB) error {
			var alloc invest.Allocation
			if req.Source == "wallet" {
				// Check the live wallet balance and deduct from it
				if err := invest.DebitWallet(tx, user.ID, req.Amount); err != nil {
					return err // Return error to rollback
				}
				alloc = invest.Allocation{
					User:      user,                     // Investing user
					Amount:    req.Amount,               // Total to invest
					Source:    domain.SourceWallet,      // Funded from wallet
					PaymentID: newFundingID("WALLET"),   // Funding identifier
				}
			} else {
				// Check available roundups before any mutation
				if err := invest.CheckRoundupFunds(tx, user.ID, req.Amount); err != nil {
					return err // Return error to rollback
				}
				alloc = invest.Allocation{
					User:      user,                     // Investing user
					Amount:    req.Amount,               // Total to invest
					Source:    domain.SourceRoundup,     // Funded from the roundup pool
					PaymentID: newFundingID("ROUNDUP"),  // Funding identifier
				}
			}
			var err error
			investments, err = invest.Allocate(tx, alloc) // Distribute across selections
			return err
		})
		if err != nil {
			writeInvestError(c, err)
			return
		}
		// Log successful investment
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,           // User ID
			"amount":  req.Amount,        // Amount invested
			"source":  req.Source,        // Funding source
			"assets":  len(investments),  // Distribution width
		}).Info("Investment allocated")
		invalidateUserCaches(c, user.ID) // Balances changed
		// Return success response
		c.JSON(http.StatusOK, gin.H{
			"status":            "success",
			"message":           "Investment successful!",
			"amount_invested":   req.Amount,
			"distributed_across": len(investments),
		})
	}
}

// GetInvestmentsHandler returns the user's raw investment rows, newest first
func GetInvestmentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var investments []domain.Investment // Slice to hold investments
		if err := db.Preload("PortfolioOption").
			Where("user_id = ?", user.ID).
			Order("created_at desc").
			Find(&investments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investments"})
			return
		}
		c.JSON(http.StatusOK, investments) // Return investments
	}
}

// GetInvestmentsDetailedHandler returns per-asset holdings with P&L against
// the current simulated market price
func GetInvestmentsDetailedHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		holdings, err := invest.Holdings(db, user.ID) // Read-side projection
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute holdings"})
			return
		}
		c.JSON(http.StatusOK, holdings) // Return holdings with P&L
	}
}

// ExitInvestmentHandler liquidates all holdings in one asset back to the
// wallet at the current price, all-or-nothing
func ExitInvestmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		optionID, err := strconv.Atoi(c.Param("id")) // Asset to exit
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset id"})
			return
		}
		var result *invest.ExitResult
		// Credit the wallet and delete the rows atomically
		err = db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			result, txErr = invest.Exit(tx, user, uint(optionID))
			return txErr
		})
		if err != nil {
			writeInvestError(c, err)
			return
		}
		// Log the liquidation
		logrus.WithFields(logrus.Fields{
			"user_id":     user.ID,              // User ID
			"asset_id":    optionID,             // Exited asset
			"credited":    result.Credited,      // Amount credited to wallet
			"profit_loss": result.ProfitLoss,    // Realized P&L
		}).Info("Investment exited")
		invalidateUserCaches(c, user.ID) // Wallet balance changed
		// Return success response
		c.JSON(http.StatusOK, gin.H{
			"status":             "success",
			"message":            "Investment exited successfully",
			"total_invested":     result.TotalInvested,
			"current_value":      result.CurrentValue,
			"profit_loss":        result.ProfitLoss,
			"credited_to_wallet": result.Credited,
		})
	}
}

// GetInvestmentSourcesHandler breaks invested money down by funding origin
func GetInvestmentSourcesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		fromRoundups, err := invest.InvestedFromRoundups(db, user.ID) // Roundup-origin spend
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investment sources"})
			return
		}
		fromWallet, err := invest.InvestedFromWallet(db, user.ID) // Wallet-origin spend
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investment sources"})
			return
		}
		totalRoundups, err := invest.TotalRoundups(db, user.ID) // Accrued round-ups
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch investment sources"})
			return
		}
		poolAvailable := invest.Round2(totalRoundups - fromRoundups) // Remaining pool
		if poolAvailable < 0 {
			poolAvailable = 0 // Floor for display
		}
		c.JSON(http.StatusOK, gin.H{
			"from_roundups":          invest.Round2(fromRoundups),
			"from_wallet":            invest.Round2(fromWallet),
			"total_invested":         invest.Round2(fromRoundups + fromWallet),
			"roundup_pool_available": poolAvailable,
		})
	}
}
