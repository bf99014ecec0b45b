package api

import (
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/invest" // Ledger and allocation engine
	"net/http"                  // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// TransactionRequest represents a purchase to record
type TransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"` // Amount spent
	Nearest     float64 `json:"nearest"`                        // Round up to nearest value (1 or 10)
	Description string  `json:"description"`                    // Optional description
}

// CreateTransactionHandler records a purchase, accrues its round-up and
// awards any milestones the cumulative savings have crossed
func CreateTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req TransactionRequest // Bind JSON request to struct
		// Validate request
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be greater than 0"})
			return
		}
		if req.Nearest <= 0 {
			req.Nearest = 1 // Round to whole currency units by default
		}
		// Calculate round-up
		roundup := invest.Roundup(req.Amount, req.Nearest)
		// Create transaction
		transaction := domain.Transaction{
			UserID:        user.ID,         // Owner
			Amount:        req.Amount,      // Amount spent
			RoundupAmount: roundup,         // Derived round-up
			Description:   req.Description, // Optional description
		}
		if err := db.Create(&transaction).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"amount":  req.Amount,  // Transaction amount
				"error":   err.Error(), // Error message
			}).Error("Failed to create transaction") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
			return
		}
		// Check and award milestones; an award failure never fails the create
		if _, err := invest.AwardMilestones(db, user.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // User ID
				"error":   err.Error(), // Error message
			}).Error("Milestone check failed")
		}
		invalidateUserCaches(c, user.ID) // Roundup savings changed
		c.JSON(http.StatusCreated, transaction)
	}
}

// GetTransactionsHandler returns the user's transactions, newest first
func GetTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var transactions []domain.Transaction // Slice to hold transactions
		if err := db.Where("user_id = ?", user.ID).
			Order("created_at desc").
			Find(&transactions).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		c.JSON(http.StatusOK, transactions) // Return transactions
	}
}

// DeleteTransactionHandler removes one of the user's transactions
func DeleteTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var transaction domain.Transaction // Find transaction
		// Scope the lookup to the authenticated user
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
			First(&transaction).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		// Delete transaction
		if err := db.Delete(&transaction).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
			return
		}
		invalidateUserCaches(c, user.ID) // Roundup savings changed
		// Return success response
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Transaction deleted successfully"})
	}
}
