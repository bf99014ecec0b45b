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

// AllocationSlice is one asset type's share of the invested total
type AllocationSlice struct {
	Type       string  `json:"type"`       // Asset type
	Amount     float64 `json:"amount"`     // Amount invested in this type
	Percentage float64 `json:"percentage"` // Share of the invested total
}

// GetDashboardHandler aggregates the user's activity: transaction count,
// savings, invested total, per-asset-type allocation and selection counts
func GetDashboardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		ctx := context.Background()                // Context for Redis operations
		cacheKey := utils.DashboardCacheKey(user.ID) // Dashboard cache key
		var cached gin.H                                            // Cached dashboard
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)   // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		var totalTransactions int64 // Total transactions
		if err := db.Model(&domain.Transaction{}).
			Where("user_id = ?", user.ID).
			Count(&totalTransactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
			return
		}
		totalRoundups, err := invest.TotalRoundups(db, user.ID) // Total round-ups accrued
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
			return
		}
		var investments []domain.Investment // All investment rows with assets
		if err := db.Preload("PortfolioOption").
			Where("user_id = ?", user.ID).
			Find(&investments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
			return
		}
		var totalInvested float64             // Invested total
		allocation := make(map[string]float64) // Amount per asset type
		typeOrder := make([]string, 0, 3)      // First-seen type order
		for _, inv := range investments {
			totalInvested += inv.Amount
			assetType := inv.PortfolioOption.AssetType
			if _, seen := allocation[assetType]; !seen {
				typeOrder = append(typeOrder, assetType)
			}
			allocation[assetType] += inv.Amount
		}
		slices := make([]AllocationSlice, 0, len(typeOrder))
		for _, assetType := range typeOrder {
			amount := allocation[assetType]
			slice := AllocationSlice{Type: assetType, Amount: invest.Round2(amount)}
			// Percentage defined as 0 when nothing is invested
			if totalInvested > 0 {
				slice.Percentage = invest.Round2(amount / totalInvested * 100)
			}
			slices = append(slices, slice)
		}
		var userSelected, autoRecommended int64 // Selection counts
		if err := db.Model(&domain.PortfolioSelection{}).
			Where("user_id = ? AND is_auto_recommended = ?", user.ID, false).
			Count(&userSelected).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
			return
		}
		if err := db.Model(&domain.PortfolioSelection{}).
			Where("user_id = ? AND is_auto_recommended = ?", user.ID, true).
			Count(&autoRecommended).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
			return
		}
		resp := gin.H{
			"total_transactions":    totalTransactions,            // Transaction count
			"total_roundups":        invest.Round2(totalRoundups), // Accrued savings
			"total_invested":        invest.Round2(totalInvested), // Invested total
			"portfolio_allocation":  slices,                       // Per-asset-type shares
			"user_selected_count":   userSelected,                 // Manual selections
			"auto_recommended_count": autoRecommended,             // System selections
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache the dashboard
		c.JSON(http.StatusOK, resp)                                  // Return the dashboard
	}
}
