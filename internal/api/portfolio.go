package api

import (
	"context"                   // Context for Redis operations
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/invest" // Ledger and allocation engine
	"microvest/internal/utils"  // Utility functions
	"net/http"                  // HTTP status codes
	"time"                      // Cache TTLs

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SelectPortfolioRequest replaces the user's whole selection set
type SelectPortfolioRequest struct {
	PortfolioOptionIDs []uint `json:"portfolio_option_ids"` // Chosen assets; empty means auto-recommend
}

// GetPortfolioOptionsHandler returns the shared asset catalog
func GetPortfolioOptionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()       // Context for Redis operations
		cacheKey := utils.CatalogCacheKey // Catalog cache key
		var options []domain.PortfolioOption
		found, err := utils.GetCache(ctx, rdb, cacheKey, &options) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, options)
			return
		}
		// If not in cache, fetch from DB
		if err := db.Find(&options).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch portfolio options"})
			return
		}
		// Short TTL: the price feed mutates the catalog continuously
		_ = utils.SetCache(ctx, rdb, cacheKey, options, 15*time.Second)
		c.JSON(http.StatusOK, options) // Return the catalog
	}
}

// SelectPortfolioHandler fully replaces the user's selection set. An empty
// id list clears it and materializes auto-recommendations instead.
func SelectPortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var req SelectPortfolioRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Replace the selection set atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			// Clear ALL existing selections (both user and auto-recommended)
			if err := tx.Where("user_id = ?", user.ID).
				Delete(&domain.PortfolioSelection{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Add new selections
			for _, optionID := range req.PortfolioOptionIDs {
				selection := domain.PortfolioSelection{
					UserID:            user.ID,  // Owner
					PortfolioOptionID: optionID, // Chosen asset
					IsAutoRecommended: false,    // User-chosen
				}
				if err := tx.Create(&selection).Error; err != nil {
					return err // Return error to rollback
				}
			}
			// Auto-recommend based on risk profile if nothing was chosen
			if len(req.PortfolioOptionIDs) == 0 {
				if _, err := invest.EnsureSelections(tx, user); err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update portfolio"})
			return
		}
		// Refresh and return
		var selections []domain.PortfolioSelection
		if err := db.Preload("PortfolioOption").
			Where("user_id = ?", user.ID).
			Find(&selections).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch portfolio"})
			return
		}
		c.JSON(http.StatusOK, selections)
	}
}

// GetPortfolioHandler returns the user's selections, auto-recommending and
// persisting a set when none exist yet
func GetPortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var selections []domain.PortfolioSelection
		// Materialize auto-recommendations inside a transaction when empty
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			selections, err = invest.EnsureSelections(tx, user)
			return err
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch portfolio"})
			return
		}
		c.JSON(http.StatusOK, selections)
	}
}

// RemoveSelectionHandler removes a single asset from the selection set
func RemoveSelectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		var selection domain.PortfolioSelection // Find the selection
		if err := db.Where("user_id = ? AND portfolio_option_id = ?", user.ID, c.Param("id")).
			First(&selection).Error; err != nil {
			// If not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Selection not found"})
			return
		}
		// Delete the selection
		if err := db.Delete(&selection).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove selection"})
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Removed from portfolio"})
	}
}
