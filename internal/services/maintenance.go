package services

import (
	"context"
	"fmt"
	"time"

	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	"capsule-desk-backend/utils"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRefreshRetries = 3
const refreshRetryDelay = 2 * time.Minute

// MaintenanceService owns the nightly housekeeping pass: it re-pulls every
// feed from the hostel backend (which rebuilds the guest search index through
// the refresh hook) and sweeps leftover response-cache keys.
type MaintenanceService struct {
	cache       *feeds.Cache
	redisClient *redis.Client
	alertEmail  string
}

func NewMaintenanceService(cache *feeds.Cache, redisClient *redis.Client, alertEmail string) *MaintenanceService {
	return &MaintenanceService{
		cache:       cache,
		redisClient: redisClient,
		alertEmail:  alertEmail,
	}
}

// RefreshAll forces a fresh pull of all three feeds.
func (m *MaintenanceService) RefreshAll(ctx context.Context) error {
	if _, err := m.cache.RefreshGuests(ctx); err != nil {
		return fmt.Errorf("guest feed refresh: %w", err)
	}
	if _, err := m.cache.RefreshTokens(ctx); err != nil {
		return fmt.Errorf("token feed refresh: %w", err)
	}
	if _, err := m.cache.RefreshCapsules(ctx); err != nil {
		return fmt.Errorf("capsule feed refresh: %w", err)
	}
	return nil
}

// SweepResponseCache drops every cached endpoint response so the morning
// shift starts from clean reads.
func (m *MaintenanceService) SweepResponseCache() {
	for _, feed := range []feeds.Feed{
		feeds.FeedGuests,
		feeds.FeedTokens,
		feeds.FeedCapsules,
		feeds.FeedAvailability,
		feeds.FeedHistory,
		feeds.FeedOccupancy,
	} {
		utils.InvalidateCacheAsync(m.redisClient, string(feed))
	}
}

// RunScheduledMaintenance runs the refresh pass nightly at 03:30 hostel time
// with retries; repeated failure emails the configured alert address. Blocks
// forever, so call it in its own goroutine.
func (m *MaintenanceService) RunScheduledMaintenance() {
	c := cron.New(cron.WithLocation(utils.DateLocation))

	c.AddFunc("30 3 * * *", func() {
		config.Logger.Info("Running nightly maintenance...")

		var retries int
		var refreshSuccess bool

		for retries < maxRefreshRetries {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			err := m.RefreshAll(ctx)
			cancel()

			if err == nil {
				refreshSuccess = true
				break
			}

			config.Logger.Warn("Nightly maintenance attempt failed",
				zap.Int("attempt", retries+1),
				zap.Error(err))
			retries++
			time.Sleep(refreshRetryDelay)
		}

		if !refreshSuccess {
			config.Logger.Error("Nightly maintenance failed after retries",
				zap.Int("retries", retries))

			if m.alertEmail != "" {
				if err := utils.SendEmail(
					m.alertEmail,
					"The nightly feed refresh failed after multiple attempts. The dashboard may be serving stale data.",
					"Capsule Desk Maintenance Failed",
					"",
				); err != nil {
					config.Logger.Error("Failed to send maintenance alert email", zap.Error(err))
				}
			}
			return
		}

		m.SweepResponseCache()
		config.Logger.Info("Nightly maintenance completed")
	})

	c.Start()

	// Keep the goroutine alive so the cron entries keep firing
	select {}
}
