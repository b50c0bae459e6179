package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StaleBookingStore is the slice of the booking repository the cleaner needs.
type StaleBookingStore interface {
	SoftDeleteStalePending(ctx context.Context, cutoffHours int) (int64, error)
}

// Cleaner runs the background sweep that soft-deletes pending bookings
// nobody paid for within the TTL, freeing their slots for rebooking.
type Cleaner struct {
	bookings StaleBookingStore
	ttlHours int
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewCleaner(bookings StaleBookingStore, ttlHours int, logger *zap.Logger) *Cleaner {
	return &Cleaner{
		bookings: bookings,
		ttlHours: ttlHours,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (c *Cleaner) Start(ctx context.Context) {
	c.logger.Info("Starting stale booking cleaner", zap.Int("ttl_hours", c.ttlHours))
	go c.run(ctx)
}

// Stop terminates the sweep loop.
func (c *Cleaner) Stop() {
	c.logger.Info("Stopping stale booking cleaner")
	close(c.stopChan)
}

func (c *Cleaner) run(ctx context.Context) {
	// First sweep right at startup.
	c.sweep(ctx)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep(ctx)
		case <-c.stopChan:
			c.logger.Info("Stale booking cleaner stopped")
			return
		case <-ctx.Done():
			c.logger.Info("Stale booking cleaner cancelled")
			return
		}
	}
}

func (c *Cleaner) sweep(ctx context.Context) {
	n, err := c.bookings.SoftDeleteStalePending(ctx, c.ttlHours)
	if err != nil {
		c.logger.Error("Failed to sweep stale bookings", zap.Error(err))
		return
	}
	if n > 0 {
		c.logger.Info("Soft-deleted stale pending bookings", zap.Int64("count", n))
	}
}
