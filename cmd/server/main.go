package main

import (
	"context"                       // context package is needed for Redis operations
	"log"                           // log package is needed for logging
	"microvest/internal/api"        // Custom package for API handlers
	"microvest/internal/config"     // Custom package for configuration
	"microvest/internal/market"     // Custom package for the simulated market feed
	"microvest/internal/middleware" // Custom package for middleware
	"microvest/internal/payment"    // Custom package for the payment gateway
	"time"                          // Feed interval

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Payment gateway client
	gateway := payment.NewGateway(cfg.GatewayKeyID, cfg.GatewaySecret)

	// Start the simulated market price feed
	feed := market.NewFeed(db)
	if err := feed.Start(time.Duration(cfg.PriceFeedSeconds) * time.Second); err != nil {
		logrus.Fatalf("failed to start price feed: %v", err)
	}
	defer feed.Stop()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/signup", api.SignupHandler(db))              // Registration endpoint
	r.POST("/login", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// Authenticated routes (protected by JWT)
	auth := r.Group("/")
	// Protect routes with JWT middleware and inject Redis client into context
	auth.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	auth.POST("/transaction", api.CreateTransactionHandler(db))       // Record a purchase with its round-up
	auth.GET("/transactions", api.GetTransactionsHandler(db))         // Transaction history endpoint
	auth.DELETE("/transaction/:id", api.DeleteTransactionHandler(db)) // Delete transaction endpoint

	auth.GET("/portfolio-options", api.GetPortfolioOptionsHandler(db, redisClient)) // Shared asset catalog
	auth.POST("/select-portfolio", api.SelectPortfolioHandler(db))                  // Replace the selection set
	auth.GET("/portfolio", api.GetPortfolioHandler(db))                             // Selections (auto-recommends when empty)
	auth.DELETE("/portfolio-selection/:id", api.RemoveSelectionHandler(db))         // Remove one selection

	auth.GET("/investments", api.GetInvestmentsHandler(db))                  // Raw investment rows
	auth.GET("/investments/detailed", api.GetInvestmentsDetailedHandler(db)) // Holdings with P&L
	auth.POST("/invest", api.InvestHandler(db))                              // Invest from roundups or wallet
	auth.POST("/create-order", api.CreateInvestOrderHandler(db, gateway))    // Gateway order for a direct investment
	auth.POST("/verify-payment", api.VerifyInvestPaymentHandler(db, gateway)) // Verify and allocate the paid amount
	auth.POST("/investments/exit/:id", api.ExitInvestmentHandler(db))        // Liquidate one asset to wallet
	auth.GET("/investment-sources", api.GetInvestmentSourcesHandler(db))     // Funding-origin breakdown

	auth.GET("/dashboard", api.GetDashboardHandler(db, redisClient)) // Aggregated dashboard
	auth.GET("/milestones", api.GetMilestonesHandler(db))            // Milestones with progress

	auth.POST("/transfer", api.CreateTransferHandler(db)) // Peer transfer with optional bundled investment
	auth.GET("/transfers", api.GetTransfersHandler(db))   // Transfer history endpoint

	auth.POST("/wallet/create-order", api.CreateWalletOrderHandler(db, gateway))     // Gateway order for a deposit
	auth.POST("/wallet/verify-payment", api.VerifyWalletPaymentHandler(db, gateway)) // Verify and credit the wallet
	auth.GET("/wallet", api.GetWalletHandler(db, redisClient))                       // Wallet balance endpoint
	auth.GET("/deposits", api.GetDepositsHandler(db))                                // Deposit history endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	// Protect admin routes with JWT and AdminOnly middleware
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))                  // List users endpoint
	adminGroup.GET("/transactions", api.ListAllTransactionsHandler(db, redisClient)) // List transactions endpoint
	adminGroup.POST("/update-prices", api.UpdatePricesHandler(feed))                 // Manual market tick

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
