// cmd/tools/sam-ingest/main.go
//
// One-shot ingestion run: pull recent SAM.gov listings into the opportunity
// pool. Intended to run on a schedule (cron or a scheduled task).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"ambit-engine/internal/common/config"
	"ambit-engine/internal/common/database"
	"ambit-engine/internal/common/logger"
	"ambit-engine/internal/ingest"
	"ambit-engine/internal/models"
	"ambit-engine/internal/notify"
	"ambit-engine/internal/store"
)

func main() {
	lookback := flag.Int("lookback-hours", 0, "override configured lookback window")
	dryRun := flag.Bool("dry-run", false, "fetch and map records without writing to the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	if *lookback > 0 {
		cfg.SamGov.LookbackHours = *lookback
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if cfg.SamGov.APIKey == "" {
		zapLog.Fatal("SAM_GOV_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	var writer ingest.OpportunityWriter = store.NewPostgresOpportunityStore(pg.DB)
	if *dryRun {
		writer = discardWriter{}
		zapLog.Info("dry run: records will not be persisted")
	}

	client := ingest.NewSamClient(cfg.SamGov, log)
	runner := ingest.NewRunner(cfg.SamGov, client, writer, log)

	summary, err := runner.Run(ctx)
	if err != nil {
		zapLog.Fatal("ingestion run failed", zap.Error(err))
	}
	zapLog.Info("ingestion run complete", zap.String("summary", summary.String()))

	// Drop the cached pool snapshot so new listings show up immediately.
	if !*dryRun && cfg.Matching.PoolCacheTTL > 0 {
		if rdb, err := database.NewRedis(cfg.Database.Redis); err == nil {
			cached := store.NewCachedOpportunityStore(nil, rdb.Client, 0, log)
			cached.Invalidate(ctx)
			rdb.Close()
		}
	}

	notifier, err := notify.New(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Warn("notifier init failed, skipping summary publish", zap.Error(err))
		return
	}
	if err := notifier.PublishIngestSummary(ctx, summary.String()); err != nil {
		zapLog.Warn("summary publish failed", zap.Error(err))
	}
}

// discardWriter satisfies the writer boundary for dry runs.
type discardWriter struct{}

func (discardWriter) InsertOpportunity(ctx context.Context, o *models.Opportunity) (int64, error) {
	return 0, nil
}

func (discardWriter) OpportunityExists(ctx context.Context, title, naics, location string, postedDate *time.Time) (bool, error) {
	return false, nil
}
