package db

import (
	"microvest/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema and seeds
// the shared catalog and milestones
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Transaction{},
		&domain.PortfolioOption{},
		&domain.PortfolioSelection{},
		&domain.Investment{},
		&domain.Milestone{},
		&domain.UserMilestone{},
		&domain.MoneyTransfer{},
		&domain.WalletDeposit{},
		&domain.InvestmentOrder{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// Seed the asset catalog and milestones when empty
	if err := Seed(db); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
}
