package api

import (
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/invest" // Ledger and allocation engine
	"net/http"                  // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TransferRequest represents a peer transfer, optionally bundling a
// round-up investment
type TransferRequest struct {
	RecipientUPI    string  `json:"recipient_upi"`                  // Recipient UPI ID
	RecipientMobile string  `json:"recipient_mobile"`               // Recipient mobile number
	RecipientName   string  `json:"recipient_name"`                 // Recipient display name
	Amount          float64 `json:"amount" binding:"required,gt=0"` // Transfer amount
	RoundupToInvest float64 `json:"roundup_to_invest"`              // Optional round-up amount to invest
	Description     string  `json:"description"`                    // Optional description
}

// CreateTransferHandler debits the wallet by the transfer amount and, when
// requested, invests a round-up amount from the roundup pool. The two
// movements draw on different funding sources and each must be individually
// sufficient; both run in one transaction so a failure leaves no partial
// effect.
func CreateTransferHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req TransferRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than 0"})
			return
		}
		// Validate that at least one recipient method is provided
		if req.RecipientUPI == "" && req.RecipientMobile == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide either UPI ID or Mobile number"})
			return
		}
		// Round to 2 decimal places to avoid floating point issues
		transferAmount := invest.Round2(req.Amount)
		roundupAmount := invest.Round2(req.RoundupToInvest)
		transactionID := newFundingID("TXN") // External transaction identifier
		var transfer domain.MoneyTransfer
		// Check, debit and record as one atomic unit
		err := db.Transaction(func(tx *gorm.DB) error {
			// Deduct ONLY the transfer amount from the wallet; the bundled
			// investment comes from accumulated round-ups
			if err := invest.DebitWallet(tx, user.ID, transferAmount); err != nil {
				return err // Return error to rollback
			}
			// Create transfer record
			transfer = domain.MoneyTransfer{
				UserID:          user.ID,              // Sender
				RecipientUPI:    req.RecipientUPI,     // Recipient UPI ID
				RecipientMobile: req.RecipientMobile,  // Recipient mobile number
				RecipientName:   req.RecipientName,    // Recipient display name
				Amount:          transferAmount,       // Debited amount
				Status:          domain.StatusSuccess, // Settled synchronously in this system
				TransactionID:   transactionID,        // External transaction identifier
				Description:     req.Description,      // Optional description
			}
			if err := tx.Create(&transfer).Error; err != nil {
				return err // Return error to rollback
			}
			// If a round-up amount was provided, invest it from the pool
			if roundupAmount > 0 {
				// The roundup pool must cover it on its own
				if err := invest.CheckRoundupFunds(tx, user.ID, roundupAmount); err != nil {
					return err // Return error to rollback
				}
				_, err := invest.Allocate(tx, invest.Allocation{
					User:      user,                       // Investing user
					Amount:    roundupAmount,              // Bundled investment
					Source:    domain.SourceRoundup,       // Funded from the roundup pool
					PaymentID: "ROUNDUP_" + transactionID, // Linked to this transfer
				})
				if err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		if err != nil {
			writeInvestError(c, err)
			return
		}
		// Log successful transfer
		logrus.WithFields(logrus.Fields{
			"user_id":        user.ID,        // Sender user ID
			"amount":         transferAmount, // Transfer amount
			"roundup_invest": roundupAmount,  // Bundled investment amount
			"transaction_id": transactionID,  // External transaction identifier
		}).Info("Money transfer")
		invalidateUserCaches(c, user.ID) // Wallet balance changed
		c.JSON(http.StatusCreated, transfer)
	}
}

// GetTransfersHandler returns the user's transfers, newest first
func GetTransfersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var transfers []domain.MoneyTransfer // Slice to hold transfers
		if err := db.Where("user_id = ?", user.ID).
			Order("created_at desc").
			Find(&transfers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transfers"})
			return
		}
		c.JSON(http.StatusOK, transfers) // Return transfers
	}
}
