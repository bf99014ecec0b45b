package api

import (
	"context"                   // Context for Redis operations
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/market" // Simulated market feed
	"microvest/internal/utils"  // Utility functions
	"net/http"                  // HTTP status codes
	"strconv"                   // String conversion
	"time"                      // Cache TTLs

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID            uint    `json:"id"`             // User ID
	Email         string  `json:"email"`          // Email address
	Role          string  `json:"role"`           // User role
	RiskProfile   string  `json:"risk_profile"`   // Risk profile
	WalletBalance float64 `json:"wallet_balance"` // Wallet balance
}

// ListUsersHandler returns all users with their wallet balances
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := utils.AdminUsersCacheKey(c.DefaultQuery("page", "1"), c.DefaultQuery("page_size", "20"))
		// Try to get cached response
		var cached gin.H
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If cached data found, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		page, pageSize, offset := pagination(c) // Pagination parameters
		var total int64                         // Total user count
		// Fetch total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		// Apply offset and limit for pagination
		if err := db.Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		// Map users to response format
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:            u.ID,            // User ID
				Email:         u.Email,         // Email address
				Role:          u.Role,          // User role
				RiskProfile:   u.RiskProfile,   // Risk profile
				WalletBalance: u.WalletBalance, // Wallet balance
			}
		}
		// Prepare final response data
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// ListAllTransactionsHandler returns every transaction across users
func ListAllTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := utils.AdminTransactionsCacheKey(c.DefaultQuery("page", "1"), c.DefaultQuery("page_size", "20"))
		var cached gin.H
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		// If cached data found, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		page, pageSize, offset := pagination(c) // Pagination parameters
		var total int64                         // Total transaction count
		if err := db.Model(&domain.Transaction{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var transactions []domain.Transaction // Slice to hold transactions
		if err := db.Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		respData := gin.H{
			"transactions": transactions, // List of transactions
			"page":         page,         // Current page
			"page_size":    pageSize,     // Page size
			"total":        total,        // Total transactions
			"total_pages":  totalPages,   // Total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second) // Cache the response
		c.JSON(http.StatusOK, respData)                                  // Return the response
	}
}

// UpdatePricesHandler manually triggers one market tick
func UpdatePricesHandler(feed *market.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		updates, err := feed.Tick() // Apply one round of price moves
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prices"})
			return
		}
		preview := updates // Show first 5 for brevity
		if len(preview) > 5 {
			preview = preview[:5]
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Updated " + strconv.Itoa(len(updates)) + " asset prices",
			"updates": preview,
		})
	}
}
