package gamedata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of documents parsed concurrently.
const DefaultBatchSize = 64

// DocumentError reports a document that was skipped. It never aborts a load.
type DocumentError struct {
	Table string
	Path  string
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("gamedata: %s document %q: %v", e.Table, e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// DecodeFunc reads and parses the document at path.
type DecodeFunc[T any] func(ctx context.Context, path string) (T, error)

// MergeFunc folds one parsed document into the caller's table. It always runs
// on the calling goroutine, after the document's batch has fully completed.
type MergeFunc[T any] func(path string, doc T)

// LoadBatched parses paths in batches of batchSize. Every document in a batch
// is parsed concurrently and the whole batch is awaited before the next one
// starts; there is no work stealing across batches. Successful documents are
// merged in path order within the batch. Failed documents are returned and
// contribute nothing. Only context cancellation makes LoadBatched return an
// error.
func LoadBatched[T any](ctx context.Context, table string, paths []string, batchSize int, decode DecodeFunc[T], merge MergeFunc[T]) ([]*DocumentError, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	var failed []*DocumentError

	for start := 0; start < len(paths); start += batchSize {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		batch := paths[start:min(start+batchSize, len(paths))]
		docs := make([]T, len(batch))
		errs := make([]error, len(batch))

		var g errgroup.Group
		for i, path := range batch {
			g.Go(func() error {
				docs[i], errs[i] = decode(ctx, path)
				return nil
			})
		}
		_ = g.Wait()

		for i, path := range batch {
			if errs[i] != nil {
				failed = append(failed, &DocumentError{Table: table, Path: path, Err: errs[i]})
				continue
			}
			merge(path, docs[i])
		}
	}
	return failed, nil
}
