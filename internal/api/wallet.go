package api

import (
	"context"                    // Context for Redis operations
	"microvest/internal/domain"  // Importing domain models
	"microvest/internal/invest"  // Ledger and allocation engine
	"microvest/internal/payment" // Payment gateway client
	"microvest/internal/utils"   // Utility functions
	"net/http"                   // HTTP status codes
	"time"                       // Cache TTLs

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// DepositOrderRequest starts a wallet deposit through the gateway
type DepositOrderRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"` // Deposit amount
	Description string  `json:"description"`                    // Optional description
}

// VerifyPaymentRequest completes a deposit after gateway checkout
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`   // Gateway order identifier
	PaymentID string `json:"payment_id" binding:"required"` // Gateway payment identifier
	Signature string `json:"signature" binding:"required"`  // HMAC signature over order|payment
	Method    string `json:"method"`                        // Payment method reported by checkout
}

// CreateWalletOrderHandler creates a gateway order and a pending deposit
// record linked to it
func CreateWalletOrderHandler(db *gorm.DB, gw *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req DepositOrderRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than 0"})
			return
		}
		order := gw.CreateOrder(req.Amount) // Create gateway order
		// Create pending deposit record
		deposit := domain.WalletDeposit{
			UserID:      user.ID,              // Owner
			Amount:      req.Amount,           // Deposit amount
			Method:      domain.MethodUPI,     // Updated after payment
			OrderID:     order.OrderID,        // Gateway order identifier
			Status:      domain.StatusPending, // Awaiting verification
			Description: req.Description,      // Optional description
		}
		if err := db.Create(&deposit).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"amount":  req.Amount,  // Deposit amount
				"error":   err.Error(), // Error message
			}).Error("Failed to create deposit order") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}
		c.JSON(http.StatusOK, order) // Return the order handle
	}
}

// VerifyWalletPaymentHandler verifies the gateway signature and credits the
// wallet; the deposit update and the credit are one atomic unit
func VerifyWalletPaymentHandler(db *gorm.DB, gw *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req VerifyPaymentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Verify signature before touching anything
		if !gw.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
			logrus.WithFields(logrus.Fields{
				"user_id":  user.ID,     // User ID
				"order_id": req.OrderID, // Gateway order identifier
			}).Warn("Payment signature mismatch") // Security-relevant validation failure
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
		var deposit domain.WalletDeposit // Find deposit record
		if err := db.Where("order_id = ? AND user_id = ?", req.OrderID, user.ID).
			First(&deposit).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Deposit record not found"})
			return
		}
		// Only a pending deposit can be completed; a replayed verify must not
		// credit the wallet twice
		if deposit.Status != domain.StatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already processed"})
			return
		}
		method := req.Method // Payment method from checkout
		if method != domain.MethodUPI && method != domain.MethodCard &&
			method != domain.MethodNetbanking && method != domain.MethodWallet {
			method = domain.MethodUPI // Default method
		}
		// Mark the deposit successful and credit the wallet atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			// Update deposit record
			if err := tx.Model(&deposit).Updates(map[string]any{
				"payment_id": req.PaymentID,        // Gateway payment identifier
				"status":     domain.StatusSuccess, // Verified
				"method":     method,               // Payment method
			}).Error; err != nil {
				return err // Return error to rollback
			}
			// Credit wallet with the recorded deposit amount
			return invest.CreditWallet(tx, user.ID, deposit.Amount)
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":  user.ID,     // User ID
				"order_id": req.OrderID, // Gateway order identifier
				"error":    err.Error(), // Error message
			}).Error("Deposit verification failed") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Deposit failed"})
			return
		}
		// Log successful deposit
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,                         // User ID
			"amount":    deposit.Amount,                  // Credited amount
			"type":      "deposit",                       // Transaction type
			"timestamp": time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Wallet deposit")
		invalidateUserCaches(c, user.ID) // Wallet balance changed
		deposit.PaymentID = req.PaymentID
		deposit.Status = domain.StatusSuccess
		deposit.Method = method
		c.JSON(http.StatusOK, deposit) // Return the completed deposit
	}
}

// GetWalletHandler returns the wallet balance, roundup savings and recent
// deposits for the authenticated user
func GetWalletHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		ctx := context.Background()                                  // Context for Redis operations
		cacheKey := utils.WalletCacheKey(user.ID)                    // Cache key for wallet view
		var cached gin.H                                             // Cached wallet view
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)    // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		totalRoundups, err := invest.TotalRoundups(db, user.ID) // Accrued round-up savings
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet"})
			return
		}
		var recentDeposits []domain.WalletDeposit // Last few deposits
		if err := db.Where("user_id = ?", user.ID).
			Order("created_at desc").
			Limit(10).
			Find(&recentDeposits).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet"})
			return
		}
		resp := gin.H{
			"wallet_balance":  user.WalletBalance,                                 // Live balance field
			"roundup_savings": invest.Round2(totalRoundups),                       // Accrued savings
			"total_available": invest.Round2(user.WalletBalance + totalRoundups),  // Combined view
			"recent_deposits": recentDeposits,                                     // Recent deposit records
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache the wallet view
		c.JSON(http.StatusOK, resp)                                  // Return wallet info
	}
}

// GetDepositsHandler returns the user's deposits, newest first
func GetDepositsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var deposits []domain.WalletDeposit // Slice to hold deposits
		if err := db.Where("user_id = ?", user.ID).
			Order("created_at desc").
			Find(&deposits).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch deposits"})
			return
		}
		c.JSON(http.StatusOK, deposits) // Return deposits
	}
}
