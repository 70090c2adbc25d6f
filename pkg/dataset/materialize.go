// Package dataset writes the resolved assets out as a sharded audio dataset
// with a line-delimited manifest, and renders the coverage report.
package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/japaniel/voiceset/pkg/observe"
	"github.com/japaniel/voiceset/pkg/voice"
)

const (
	// WavsDir is the shard tree root inside the dataset directory.
	WavsDir = "wavs"
	// ManifestFile is the line-delimited metadata manifest.
	ManifestFile = "metadata.jsonl"

	DefaultCopyWorkers = 64
)

// Materializer owns the dataset directory Dir. Every run deletes and
// re-creates Dir/wavs.
type Materializer struct {
	Dir         string
	CopyWorkers int
	Logger      *slog.Logger
	Metrics     *observe.Metrics
}

// NewMaterializer returns a Materializer for dir with default settings.
func NewMaterializer(dir string) *Materializer {
	return &Materializer{Dir: dir, CopyWorkers: DefaultCopyWorkers}
}

func (m *Materializer) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m *Materializer) metrics() *observe.Metrics {
	if m.Metrics != nil {
		return m.Metrics
	}
	return observe.DefaultMetrics()
}

// Materialize copies every asset into its shard directory and writes the
// manifest. Any filesystem error aborts the run. The returned coverage
// describes the written set.
func (m *Materializer) Materialize(ctx context.Context, assets []*voice.Asset) (Coverage, error) {
	start := time.Now()
	defer m.metrics().ObservePhase(ctx, "materialize", start)

	root := filepath.Join(m.Dir, WavsDir)
	if err := os.RemoveAll(root); err != nil {
		return Coverage{}, fmt.Errorf("dataset: clear %s: %w", root, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return Coverage{}, fmt.Errorf("dataset: create %s: %w", root, err)
	}

	shards := make(map[string]struct{})
	for _, a := range assets {
		shards[ShardPath(a.Key)] = struct{}{}
	}
	for shard := range shards {
		dir := filepath.Join(root, filepath.FromSlash(shard))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Coverage{}, fmt.Errorf("dataset: create shard %s: %w", dir, err)
		}
	}

	workers := m.CopyWorkers
	if workers <= 0 {
		workers = DefaultCopyWorkers
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, a := range assets {
		dst := filepath.Join(m.Dir, filepath.FromSlash(RelativePath(a.Key, a.FileName)))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := copyFile(a.Path, dst); err != nil {
				return err
			}
			m.metrics().FilesCopied.Add(gctx, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Coverage{}, err
	}
	m.logger().Info("copied audio files", "count", len(assets), "shards", len(shards))

	manifest, err := BuildManifest(assets)
	if err != nil {
		return Coverage{}, err
	}
	if err := ValidateManifest(manifest); err != nil {
		return Coverage{}, err
	}
	if err := os.WriteFile(filepath.Join(m.Dir, ManifestFile), manifest, 0o644); err != nil {
		return Coverage{}, fmt.Errorf("dataset: write manifest: %w", err)
	}
	return ComputeCoverage(assets), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("dataset: copy %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("dataset: copy %s: %w", src, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("dataset: copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("dataset: copy %s: %w", src, err)
	}
	return nil
}
