package api

import (
	"context"                   // Context for Redis operations
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/utils"  // Utility functions
	"net/http"                  // HTTP status codes
	"strconv"                   // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// currentUser loads the authenticated user placed in context by the JWT
// middleware. Writes the error response itself when the user is missing.
func currentUser(c *gin.Context, db *gorm.DB) (*domain.User, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	// Check if userID exists in context
	if !exists {
		// If not, return unauthorized
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	var user domain.User // Fetch user from database
	if err := db.First(&user, userID).Error; err != nil {
		// If user not found, return unauthorized
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// invalidateUserCaches drops the cached views a mutation makes stale
func invalidateUserCaches(c *gin.Context, userID uint) {
	// The protected route groups inject the Redis client into context
	raw, exists := c.Get("redisClient")
	if !exists {
		return
	}
	if rdb, ok := raw.(*redis.Client); ok {
		ctx := context.Background()                                          // Context for Redis operations
		_ = utils.DeleteCache(ctx, rdb, utils.WalletCacheKey(userID))        // Invalidate wallet view
		_ = utils.DeleteCache(ctx, rdb, utils.DashboardCacheKey(userID))     // Invalidate dashboard view
	}
}

// pagination reads page/page_size query params with the shared defaults
func pagination(c *gin.Context) (page, pageSize, offset int) {
	page = 1      // Default page
	pageSize = 20 // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		// Convert page to integer
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If page_size exists in query
	if ps := c.Query("page_size"); ps != "" {
		// Convert page_size to integer
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v // Set page size if valid
		}
	}
	offset = (page - 1) * pageSize // Calculate offset
	return page, pageSize, offset
}
