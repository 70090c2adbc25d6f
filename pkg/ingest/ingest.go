// Package ingest exports resolved voice assets into the sqlite store. Readings
// are computed on a worker pool and rows are committed through a BatchWriter.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/japaniel/voiceset/pkg/db"
	"github.com/japaniel/voiceset/pkg/observe"
	"github.com/japaniel/voiceset/pkg/voice"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(Job) error
	// SubmitCtx attempts to enqueue a job but returns promptly if ctx is canceled.
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Reader produces the kana reading of a Japanese transcription.
type Reader interface {
	Reading(text string) string
}

// Ingester writes assets and their trigger bindings to the database.
type Ingester struct {
	DB *sql.DB
	// Reader annotates Japanese transcriptions. nil disables readings.
	Reader    Reader
	BatchSize int
	Logger    *slog.Logger
	Metrics   *observe.Metrics
	// OnProgress is called periodically with the number of queued assets and the total.
	OnProgress func(current, total int)

	Workers int

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB, r Reader) *Ingester {
	return &Ingester{
		DB:        conn,
		Reader:    r,
		BatchSize: 50,
		Workers:   4,
	}
}

// preparedAsset is the worker output for one asset.
type preparedAsset struct {
	Index    int
	Row      db.Asset
	Bindings []db.Binding
	Error    error
}

// Ingest stores every asset and returns how many were written. Rows are
// submitted in input order. On success the coverage of the stored set is
// recorded as an export run.
func (ig *Ingester) Ingest(ctx context.Context, assets []*voice.Asset) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	parent := ctx
	total := len(assets)
	batchSize := ig.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*2)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*2)
	}
	resultCh := make(chan preparedAsset, ig.Workers*2)
	closedResultCh := false
	doneCh := make(chan error, 1)

	var written atomic.Int64

	bw := NewBatchWriter(ig.DB, batchSize, 100*time.Millisecond)
	var batchErr error
	var batchErrMu sync.Mutex
	bw.OnError = func(e error) {
		batchErrMu.Lock()
		if batchErr == nil {
			batchErr = e
		}
		batchErrMu.Unlock()
	}

	defer func() {
		wp.Close()
		if !closedResultCh {
			close(resultCh)
		}
		_ = bw.Close()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// Consumer: restore input order and hand rows to the batch writer.
	go func() {
		buffer := make(map[int]preparedAsset)
		next := 0
		drain := func() error {
			for {
				item, ok := buffer[next]
				if !ok {
					return nil
				}
				delete(buffer, next)
				if err := bw.Submit(writeAsset(item, &written)); err != nil {
					return err
				}
				next++
				if ig.OnProgress != nil && next%batchSize == 0 {
					ig.OnProgress(next, total)
				}
			}
		}
		for res := range resultCh {
			if res.Error != nil {
				cancel()
				doneCh <- res.Error
				return
			}
			buffer[res.Index] = res
			if err := drain(); err != nil {
				cancel()
				doneCh <- err
				return
			}
		}
		if ig.OnProgress != nil {
			ig.OnProgress(next, total)
		}
		doneCh <- nil
	}()

Loop:
	for i, a := range assets {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx, asset := i, a
		job := func(ctx context.Context) error {
			res := ig.prepare(idx, asset)
			select {
			case resultCh <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			if err == ctx.Err() || err == ErrPoolClosed {
				break Loop
			}
			return 0, err
		}
	}

	wp.Close()
	close(resultCh)
	closedResultCh = true

	consumerErr := <-doneCh
	if err := bw.Close(); err != nil && consumerErr == nil {
		consumerErr = err
	}
	batchErrMu.Lock()
	if batchErr != nil && consumerErr == nil {
		consumerErr = batchErr
	}
	batchErrMu.Unlock()
	if err := parent.Err(); err != nil && consumerErr == nil {
		consumerErr = err
	}
	if consumerErr != nil {
		return int(written.Load()), consumerErr
	}

	cov, err := db.CountCoverage(ig.DB)
	if err != nil {
		return int(written.Load()), err
	}
	if _, err := db.RecordRun(ig.DB, cov); err != nil {
		return int(written.Load()), err
	}
	ig.logger().Info("exported assets", "written", written.Load(), "stored", cov.Total,
		"no_speaker", cov.NoSpeaker, "no_transcription", cov.NoTranscription)
	ig.metrics().ObservePhase(parent, "export", start)
	return int(written.Load()), nil
}

func (ig *Ingester) logger() *slog.Logger {
	if ig.Logger != nil {
		return ig.Logger
	}
	return slog.Default()
}

func (ig *Ingester) metrics() *observe.Metrics {
	if ig.Metrics != nil {
		return ig.Metrics
	}
	return observe.DefaultMetrics()
}

// prepare converts an asset into store rows. It is the CPU-bound part of
// the export and runs on pool workers.
func (ig *Ingester) prepare(index int, a *voice.Asset) preparedAsset {
	if a == nil || a.Key == "" {
		return preparedAsset{Index: index, Error: fmt.Errorf("ingest: asset %d has no key", index)}
	}
	row := db.Asset{
		Key:            a.Key,
		FileName:       a.FileName,
		InGameFileName: a.InGameFileName,
		Language:       string(a.Language),
		Transcription:  a.Transcription,
		Speaker:        a.Speaker,
		SpeakerType:    a.SpeakerRoleKind,
		OriginGUID:     a.OriginGUID,
	}
	if ig.Reader != nil && a.Language == voice.Japanese && a.Transcription != "" {
		row.Reading = ig.Reader.Reading(a.Transcription)
	}
	bindings := make([]db.Binding, len(a.Bindings))
	for i, b := range a.Bindings {
		bindings[i] = db.Binding{Position: i, Kind: string(b.Kind), Args: b.Args, SpeakerHint: b.SpeakerHint}
	}
	return preparedAsset{Index: index, Row: row, Bindings: bindings}
}

func writeAsset(p preparedAsset, written *atomic.Int64) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		if err := db.UpsertAsset(tx, p.Row); err != nil {
			return fmt.Errorf("failed to persist asset %s: %w", p.Row.Key, err)
		}
		if err := db.ReplaceBindings(tx, p.Row.Key, p.Bindings); err != nil {
			return fmt.Errorf("failed to persist bindings of %s: %w", p.Row.Key, err)
		}
		written.Add(1)
		return nil
	}
}
