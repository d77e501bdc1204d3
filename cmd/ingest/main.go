package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"booking-attribution-service/internal/bookings/adapters/filesystem"
	"booking-attribution-service/internal/bookings/adapters/objectstore"
	bookingsRepoPg "booking-attribution-service/internal/bookings/adapters/postgres"
	"booking-attribution-service/internal/bookings/adapters/snapshot"
	"booking-attribution-service/internal/bookings/adapters/spendfeed"
	"booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/bookings/core/ports"
	"booking-attribution-service/internal/bookings/core/usecase"

	"booking-attribution-service/internal/config"
	"booking-attribution-service/internal/logger"
	"booking-attribution-service/internal/metrics"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sourceDir    string
	bucket       string
	prefix       string
	lookbackDays int
	csvPath      string
	xlsxPath     string
	channelsFile string
	pushgateway  string
)

// pushJob is the Pushgateway job label of ingest runs.
const pushJob = "booking_attribution_ingest"

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the booking snapshot from webhook events and the daily spend feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return run(ctx, cfg)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&sourceDir, "source-dir", "", "read events from a local directory instead of S3 (SOURCE_DIR)")
	f.StringVar(&bucket, "bucket", "", "S3 bucket holding webhook events (S3_BUCKET)")
	f.StringVar(&prefix, "prefix", "", "S3 key prefix (S3_PREFIX)")
	f.IntVar(&lookbackDays, "lookback", 0, "fetch spend only for this many days ending yesterday, 0 for all (SPEND_LOOKBACK_DAYS)")
	f.StringVar(&csvPath, "csv", "", "CSV snapshot path (SNAPSHOT_CSV_PATH)")
	f.StringVar(&xlsxPath, "xlsx", "", "XLSX snapshot path, empty string disables it (SNAPSHOT_XLSX_PATH)")
	f.StringVar(&channelsFile, "channels", "", "channel map file (CHANNEL_MAP_FILE)")
	f.StringVar(&pushgateway, "pushgateway", "", "Pushgateway URL for run metrics, empty disables it (PUSHGATEWAY_URL)")
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("source-dir") {
		cfg.SourceDir = sourceDir
		cfg.S3Bucket = ""
	}
	if f.Changed("bucket") {
		cfg.S3Bucket = bucket
	}
	if f.Changed("prefix") {
		cfg.S3Prefix = prefix
	}
	if f.Changed("lookback") {
		cfg.SpendLookbackDays = lookbackDays
	}
	if f.Changed("csv") {
		cfg.SnapshotCSVPath = csvPath
	}
	if f.Changed("xlsx") {
		cfg.SnapshotXLSXPath = xlsxPath
	}
	if f.Changed("channels") {
		cfg.ChannelMapFile = channelsFile
	}
	if f.Changed("pushgateway") {
		cfg.PushgatewayURL = pushgateway
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	if err := cfg.ValidateIngest(); err != nil {
		return err
	}
	// Collectors are only registered when something will read them.
	if cfg.PushgatewayURL != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			return err
		}
		defer func() {
			if err := pushMetrics(context.WithoutCancel(ctx), cfg.PushgatewayURL, reg); err != nil {
				log.Warn("metrics push failed", zap.String("pushgateway", cfg.PushgatewayURL), zap.Error(err))
			}
		}()
	}

	joinLoc, _ := config.Location(cfg.JoinTimezone)
	spendLoc, _ := config.Location(cfg.SpendTimezone)

	mapping, err := config.LoadChannelMap(cfg.ChannelMapFile)
	if err != nil {
		return err
	}
	resolver := usecase.NewChannelResolver(mapping)

	// Event source
	var source ports.EventSourcePort
	if cfg.S3Bucket != "" {
		client, err := objectstore.NewClient(ctx, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
		if err != nil {
			return err
		}
		source = objectstore.NewSource(client, cfg.S3Bucket, cfg.S3Prefix, log)
		log.Info("reading events from s3", zap.String("bucket", cfg.S3Bucket), zap.String("prefix", cfg.S3Prefix))
	} else {
		source = filesystem.NewSource(cfg.SourceDir)
		log.Info("reading events from directory", zap.String("dir", cfg.SourceDir))
	}

	spend, err := spendfeed.NewClient(cfg.SpendFeedURL, cfg.HTTPTimeout)
	if err != nil {
		return err
	}

	// Writers
	var writers []ports.SnapshotWriterPort
	if cfg.SnapshotCSVPath != "" {
		writers = append(writers, snapshot.NewCSVWriter(cfg.SnapshotCSVPath))
	}
	if cfg.SnapshotXLSXPath != "" {
		writers = append(writers, snapshot.NewXLSXWriter(cfg.SnapshotXLSXPath, log))
	}

	paths := domain.DefaultFieldPaths()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		repo := bookingsRepoPg.NewSnapshotRepository(bookingsRepoPg.NewSQLDB(db), paths, joinLoc)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		writers = append(writers, repo)
	}

	uc := usecase.NewBuildSnapshotUseCase(source, spend, writers, resolver, usecase.Options{
		Paths:             paths,
		JoinLocation:      joinLoc,
		SpendLocation:     spendLoc,
		SpendLookbackDays: cfg.SpendLookbackDays,
	}, log)

	res, err := uc.Execute(ctx, usecase.BuildSnapshotInput{})
	if err != nil {
		log.Error("pipeline failed", zap.Error(err))
		return err
	}

	for _, uri := range resolver.EventTypes() {
		ch := resolver.Resolve(uri)
		log.Info("bookings per event type",
			zap.String("event_type", uri),
			zap.Stringp("channel", ch),
			zap.Int("bookings", res.EventTypeCounts[uri]),
		)
	}
	log.Info("snapshot ready",
		zap.String("run_id", res.RunID),
		zap.Int("bookings", len(res.Snapshot.Bookings)),
		zap.Bool("listing_partial", res.ListingPartial),
	)
	return nil
}

// pushMetrics replaces this job's metric group on the Pushgateway.
func pushMetrics(ctx context.Context, url string, g prometheus.Gatherer) error {
	return push.New(url, pushJob).Gatherer(g).PushContext(ctx)
}
