// Package jobs runs the periodic housekeeping tasks.
package jobs

import (
	"log"
	"time"

	"learnhub/backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	pendingOrderTTL = 24 * time.Hour
	cartItemTTL     = 30 * 24 * time.Hour
)

// Start schedules the nightly cleanup and returns the running scheduler.
func Start(db *gorm.DB, logger *log.Logger) *cron.Cron {
	c := cron.New()

	c.AddFunc("@daily", func() {
		ExpirePendingOrders(db, logger)
		PurgeStaleCartItems(db, logger)
	})

	c.Start()
	return c
}

// ExpirePendingOrders marks orders that never completed payment as expired.
func ExpirePendingOrders(db *gorm.DB, logger *log.Logger) {
	cutoff := time.Now().Add(-pendingOrderTTL)
	res := db.Model(&models.Order{}).
		Where("status = ? AND created_at < ?", models.OrderStatusPending, cutoff).
		Update("status", models.OrderStatusExpired)
	if res.Error != nil {
		logger.Printf("expire pending orders: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Printf("expired %d pending orders", res.RowsAffected)
	}
}

// PurgeStaleCartItems drops cart rows that have been sitting for a month.
func PurgeStaleCartItems(db *gorm.DB, logger *log.Logger) {
	cutoff := time.Now().Add(-cartItemTTL)
	res := db.Where("created_at < ?", cutoff).Delete(&models.CartItem{})
	if res.Error != nil {
		logger.Printf("purge stale cart items: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Printf("purged %d stale cart items", res.RowsAffected)
	}
}
