package api

import (
	"microvest/internal/domain"  // Importing domain models
	"microvest/internal/invest"  // Ledger and allocation engine
	"microvest/internal/payment" // Payment gateway client
	"net/http"                   // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// InvestOrderRequest starts a gateway-funded investment
type InvestOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Amount to invest
}

// CreateInvestOrderHandler creates a gateway order for investing fresh money
// directly, recording the amount on a pending order so verification knows
// how much to allocate
func CreateInvestOrderHandler(db *gorm.DB, gw *payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req InvestOrderRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than 0"})
			return
		}
		order := gw.CreateOrder(req.Amount) // Create gateway order
		// Create pending order record
		record := domain.InvestmentOrder{
			UserID:  user.ID,              // Owner
			Amount:  req.Amount,           // Amount to invest
			OrderID: order.OrderID,        // Gateway order identifier
			Status:  domain.StatusPending, // Awaiting verification
		}
		if err := db.Create(&record).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"amount":  req.Amount,  // Order amount
				"error":   err.Error(), // Error message
			}).Error("Failed to create investment order") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}
		c.JSON(http.StatusOK, order) // Return the order handle
	}
}

// VerifyInvestPaymentHandler verifies the gateway signature and allocates the
// recorded order amount across the user's selections; the order update and the
// allocation are one atomic unit
func VerifyInvestPaymentHandler(db *gorm.DB, gw *payment.Gateway) gin.HandlerFunc {
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
		var order domain.InvestmentOrder // Find order record
		if err := db.Where("order_id = ? AND user_id = ?", req.OrderID, user.ID).
			First(&order).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Order record not found"})
			return
		}
		// Only a pending order can be completed; a replayed verify must not
		// allocate twice
		if order.Status != domain.StatusPending {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already processed"})
			return
		}
		var investments []domain.Investment
		// Mark the order successful and allocate atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			// Update order record
			if err := tx.Model(&order).Updates(map[string]any{
				"payment_id": req.PaymentID,        // Gateway payment identifier
				"status":     domain.StatusSuccess, // Verified
			}).Error; err != nil {
				return err // Return error to rollback
			}
			// The paid money is fresh, so no funding-source check: allocate the
			// recorded order amount across the selections
			var txErr error
			investments, txErr = invest.Allocate(tx, invest.Allocation{
				User:      user,                 // Investing user
				Amount:    order.Amount,         // Recorded order amount
				Source:    domain.SourceGateway, // Funded through the gateway
				PaymentID: req.PaymentID,        // Gateway payment identifier
			})
			return txErr
		})
		if err != nil {
			writeInvestError(c, err)
			return
		}
		// Log successful gateway investment
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,          // User ID
			"amount":   order.Amount,     // Amount invested
			"order_id": req.OrderID,      // Gateway order identifier
			"assets":   len(investments), // Distribution width
		}).Info("Gateway investment allocated")
		invalidateUserCaches(c, user.ID) // Balances changed
		// Return success response
		c.JSON(http.StatusOK, gin.H{
			"status":             "success",
			"message":            "Investment successful!",
			"amount_invested":    order.Amount,
			"distributed_across": len(investments),
		})
	}
}
