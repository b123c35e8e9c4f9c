package ingest

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/reizio/reiz"
)

// FileSource lists the candidate source files for one project. File
// discovery (walking a checkout, filtering extensions) belongs to the
// external sampler/downloader collaborator per spec.md §1's
// out-of-scope boundary; Ingest only consumes the resulting paths.
type FileSource func(ctx context.Context, project reiz.Project) ([]string, error)

// Ingest runs dataset through drv: for each project, insert its row
// if absent, then ingest every file FileSource reports for it. A
// semaphore bounds how many projects run concurrently — one logical
// task per project, each task acquiring its own pool connection for
// its lifetime, per spec.md §5 — while an errgroup collects the first
// worker error and propagates cancellation to the rest.
func Ingest(ctx context.Context, drv *Driver, dataset reiz.Dataset, files FileSource, opts Options) (*reiz.Statistics, error) {
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := &reiz.Statistics{}
	var mu sync.Mutex
	var inserted atomic.Int64

	sem := semaphore.NewWeighted(int64(opts.Workers))
	eg, ctx := errgroup.WithContext(ctx)

	for _, project := range dataset {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		eg.Go(func() error {
			defer sem.Release(1)
			return drv.ingestProject(ctx, project, files, opts, stats, &mu, &inserted, cancel)
		})
	}

	if err := eg.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

// ingestProject inserts project's row (if absent) and every file
// FileSource reports for it, stopping early once the hard limit has
// been reached.
func (d *Driver) ingestProject(
	ctx context.Context,
	project reiz.Project,
	files FileSource,
	opts Options,
	stats *reiz.Statistics,
	mu *sync.Mutex,
	inserted *atomic.Int64,
	stop context.CancelFunc,
) error {
	conn, err := d.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := d.insertProject(ctx, conn, project); err != nil {
		return err
	}

	paths, err := files(ctx, project)
	if err != nil {
		return err
	}
	if opts.MaxFilesPerProject > 0 && len(paths) > opts.MaxFilesPerProject {
		paths = paths[:opts.MaxFilesPerProject]
	}

	for _, path := range paths {
		if ctx.Err() != nil {
			return nil
		}
		if opts.HardLimit > 0 && inserted.Load() >= int64(opts.HardLimit) {
			slog.Info("ingest: hard limit reached, cancelling remaining work", "limit", opts.HardLimit)
			stop()
			return nil
		}

		status := d.ingestFile(ctx, conn, path, opts, project.Name)

		mu.Lock()
		stats.Add(status)
		mu.Unlock()

		if status == reiz.StatusInserted {
			inserted.Add(1)
		}
	}
	return nil
}
