// Command voiceset rebuilds per-clip metadata for extracted game voice lines
// and writes a sharded audio dataset with a line-delimited manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/japaniel/voiceset/pkg/config"
	"github.com/japaniel/voiceset/pkg/dataset"
	"github.com/japaniel/voiceset/pkg/db"
	"github.com/japaniel/voiceset/pkg/gamedata"
	"github.com/japaniel/voiceset/pkg/index"
	"github.com/japaniel/voiceset/pkg/ingest"
	"github.com/japaniel/voiceset/pkg/observe"
	"github.com/japaniel/voiceset/pkg/reading"
	"github.com/japaniel/voiceset/pkg/resolve"
	"github.com/japaniel/voiceset/pkg/voice"
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	configPath := flag.String("config", "", "Path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voiceset: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider := observe.InitProvider()
	defer provider.Shutdown(context.Background())
	metrics, err := observe.NewMetrics(provider)
	if err != nil {
		logger.Error("failed to create metrics", "err", err)
		return 1
	}

	cov, err := run(ctx, cfg, logger, metrics, time.Now())
	if err != nil {
		logger.Error("run failed", "err", err)
		return 1
	}

	if totals, err := provider.Totals(ctx); err == nil {
		for _, name := range observe.SortedNames(totals) {
			logger.Debug("metric", "name", name, "value", totals[name])
		}
	}
	logger.Info("done",
		"wavs", cov.Total,
		"no_speaker", cov.NoSpeaker,
		"no_transcription", cov.NoTranscription,
		"no_file_name", cov.NoFileName,
	)
	return 0
}

// run executes the fixed pipeline: discover, load, index, link, resolve,
// materialize, report and the optional sqlite export.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observe.Metrics, now time.Time) (dataset.Coverage, error) {
	start := time.Now()
	catalog, err := resolve.Discover(cfg.WavDir, cfg.AudioExt, logger)
	if err != nil {
		return dataset.Coverage{}, err
	}
	metrics.AssetsDiscovered.Add(ctx, int64(len(catalog)))
	metrics.ObservePhase(ctx, "discover", start)
	logger.Info("discovered audio files", "dir", cfg.WavDir, "count", len(catalog))

	loader := gamedata.NewLoader(cfg.GameDataDir)
	loader.BatchSize = cfg.BatchSize
	loader.Logger = logger
	loader.Metrics = metrics
	tables, report, err := loader.Load(ctx)
	if err != nil {
		return dataset.Coverage{}, err
	}
	if len(report.Failed) > 0 {
		logger.Warn("some game-data documents were skipped", "count", len(report.Failed))
	}

	start = time.Now()
	idx := index.Build(tables)
	matched := catalog.Link(tables.Records)
	metrics.AssetsMatched.Add(ctx, int64(matched))
	logger.Info("linked voice records", "records", len(tables.Records), "matched", matched)

	assets := catalog.Sorted()
	resolver := resolve.New(idx)
	resolver.Metrics = metrics
	if err := resolver.ResolveAll(ctx, assets, runtime.GOMAXPROCS(0)); err != nil {
		return dataset.Coverage{}, err
	}
	metrics.ObservePhase(ctx, "resolve", start)

	if err := dataset.WriteResult(cfg.ResultPath, assets); err != nil {
		return dataset.Coverage{}, err
	}

	mat := dataset.NewMaterializer(cfg.DatasetDir)
	mat.CopyWorkers = cfg.CopyWorkers
	mat.Logger = logger
	mat.Metrics = metrics
	cov, err := mat.Materialize(ctx, assets)
	if err != nil {
		return dataset.Coverage{}, err
	}

	content, updated, err := dataset.UpdateReport(cfg.ReadmePath, dataset.RenderStats(cov, now))
	if err != nil {
		return dataset.Coverage{}, err
	}
	if !updated {
		logger.Warn("report has no stats markers; left unchanged", "path", cfg.ReadmePath)
	}
	if err := dataset.WriteCard(cfg.DatasetDir, dataset.DefaultCardMeta(), content); err != nil {
		return dataset.Coverage{}, err
	}

	if cfg.ExportDB != "" {
		if err := export(ctx, cfg, assets, logger, metrics); err != nil {
			return dataset.Coverage{}, err
		}
	}
	return cov, nil
}

func export(ctx context.Context, cfg *config.Config, assets []*voice.Asset, logger *slog.Logger, metrics *observe.Metrics) error {
	conn, err := db.Open(cfg.ExportDB)
	if err != nil {
		return fmt.Errorf("open export db: %w", err)
	}
	defer conn.Close()
	// sqlite allows one writer; the batch writer holds it per transaction.
	conn.SetMaxOpenConns(1)

	if err := db.InitDB(conn); err != nil {
		return fmt.Errorf("initialize export db: %w", err)
	}
	analyzer, err := reading.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	ig := ingest.NewIngester(conn, analyzer)
	ig.Workers = cfg.IngestWorkers
	ig.Logger = logger
	ig.Metrics = metrics
	ig.OnProgress = func(current, total int) {
		logger.Debug("export progress", "current", current, "total", total)
	}
	if _, err := ig.Ingest(ctx, assets); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
