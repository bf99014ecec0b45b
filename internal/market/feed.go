package market

import (
	"fmt"                       // Cron spec formatting
	"math/rand"                 // Uniform price perturbation
	"microvest/internal/domain" // Importing domain models
	"microvest/internal/invest" // Rounding helpers
	"time"                      // Tick interval

	"github.com/robfig/cron/v3"  // Cron scheduler
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// MaxDrift bounds each tick's price move: changes are uniform in [-3%, +3%]
const MaxDrift = 0.03

// PriceUpdate reports one asset's move during a tick
type PriceUpdate struct {
	Name       string  `json:"name"`           // Asset display name
	OldPrice   float64 `json:"old_price"`      // Price before the move
	NewPrice   float64 `json:"new_price"`      // Price after the move
	ChangePct  float64 `json:"change_percent"` // Applied change in percent
}

// Feed simulates market movement: on every tick each catalog price is
// perturbed by an independent uniform random percentage, multiplicatively,
// and rounded to 2 decimals. Prices are advisory; a failed tick is logged
// and the next one proceeds.
type Feed struct {
	db   *gorm.DB   // Shared price store
	cron *cron.Cron // Tick scheduler
}

// NewFeed creates a price feed bound to the shared store
func NewFeed(db *gorm.DB) *Feed {
	return &Feed{db: db, cron: cron.New()}
}

// Start schedules the periodic tick at the given interval
func (f *Feed) Start(interval time.Duration) error {
	_, err := f.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		// A tick failure never stops the loop; the next tick retries
		if _, err := f.Tick(); err != nil {
			logrus.WithField("error", err.Error()).Error("Price tick failed")
		}
	})
	if err != nil {
		return err
	}
	f.cron.Start()
	logrus.WithField("interval", interval.String()).Info("Price feed started")
	return nil
}

// Stop halts the scheduler and waits for a running tick to finish
func (f *Feed) Stop() {
	ctx := f.cron.Stop()
	<-ctx.Done()
	logrus.Info("Price feed stopped")
}

// Tick applies one round of price moves to the whole catalog in a single
// transaction. Also serves as the on-demand manual trigger.
func (f *Feed) Tick() ([]PriceUpdate, error) {
	var updates []PriceUpdate
	err := f.db.Transaction(func(tx *gorm.DB) error {
		var options []domain.PortfolioOption
		if err := tx.Find(&options).Error; err != nil {
			return err
		}
		for i := range options {
			change := (rand.Float64()*2 - 1) * MaxDrift // Uniform in [-3%, +3%]
			oldPrice := options[i].CurrentPrice
			newPrice := invest.Round2(oldPrice * (1 + change)) // No clamp beyond rounding
			if err := tx.Model(&options[i]).Update("current_price", newPrice).Error; err != nil {
				return err
			}
			updates = append(updates, PriceUpdate{
				Name:      options[i].Name,            // Asset display name
				OldPrice:  oldPrice,                   // Price before the move
				NewPrice:  newPrice,                   // Price after the move
				ChangePct: invest.Round2(change * 100), // Applied change in percent
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("assets", len(updates)).Info("Stock prices updated")
	return updates, nil
}
