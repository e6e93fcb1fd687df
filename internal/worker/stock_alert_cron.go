package worker

// stock_alert_cron.go
// Background goroutine that periodically scans for products below their
// low-stock threshold and emails a restock digest to the store owner.
// The digest is deduplicated with a Redis key so the same day's alert is
// sent at most once.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dailymart/internal/infra"
	"dailymart/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertTickInterval = 1 * time.Hour
	alertSentKey      = "alerts:low_stock_sent:"
)

// StockAlertConfig holds all dependencies for the alert goroutine.
type StockAlertConfig struct {
	Products   repository.ProductRepository
	Mailer     *infra.Mailer
	RDB        *redis.Client
	AlertEmail string
	StoreName  string
}

// StartStockAlertCron launches a background goroutine that ticks hourly and
// emails one low-stock digest per day when anything is under threshold.
// It respects the context for graceful shutdown.
func StartStockAlertCron(ctx context.Context, cfg StockAlertConfig) {
	if cfg.AlertEmail == "" {
		log.Info().Msg("stock_alert: no alert email configured, cron disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(alertTickInterval)
		defer ticker.Stop()

		log.Info().Msg("stock_alert: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_alert: shutting down")
				return
			case <-ticker.C:
				processAlerts(ctx, cfg)
			}
		}
	}()
}

func processAlerts(ctx context.Context, cfg StockAlertConfig) {
	today := time.Now().Format("2006-01-02")
	sentKey := alertSentKey + today

	// One digest per day. SetNX wins the race between replicas too.
	ok, err := cfg.RDB.SetNX(ctx, sentKey, "1", 48*time.Hour).Result()
	if err != nil {
		log.Error().Err(err).Msg("stock_alert: redis dedup check failed")
		return
	}
	if !ok {
		return
	}

	products, err := cfg.Products.LowStock(ctx, nil)
	if err != nil {
		log.Error().Err(err).Msg("stock_alert: low stock query failed")
		// Allow a retry next tick.
		cfg.RDB.Del(ctx, sentKey)
		return
	}
	if len(products) == 0 {
		// Nothing to report; release the key so a later drop still alerts today.
		cfg.RDB.Del(ctx, sentKey)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d product(s) below restock threshold:\n\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "  %-14s %-30s %d left (threshold %d)\n",
			p.Barcode, p.Name, p.Quantity, p.LowStockThreshold)
	}

	subject := fmt.Sprintf("%s — low stock digest %s", cfg.StoreName, today)
	if err := cfg.Mailer.SendAlert(cfg.AlertEmail, subject, b.String()); err != nil {
		log.Error().Err(err).Msg("stock_alert: failed to send digest")
		cfg.RDB.Del(ctx, sentKey)
		return
	}
	log.Info().Int("count", len(products)).Msg("stock_alert: digest sent")
}
