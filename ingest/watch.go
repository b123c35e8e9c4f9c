package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/reizio/reiz"
)

// Watch watches root's directory tree for Go source writes/creates
// and re-ingests each changed file against project, bypassing the
// filename cache so an edit is picked up instead of reported CACHED.
// It blocks until ctx is cancelled (returning ctx.Err()) or the
// watcher's channels close (returning nil); watcher errors are logged
// and watching continues.
// Not named by spec.md; a supplement the fsnotify dependency exists
// to exercise (see SPEC_FULL.md's ambient stack notes).
func Watch(ctx context.Context, drv *Driver, root string, project reiz.Project, opts Options) error {
	opts = opts.withDefaults()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	conn, err := drv.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := drv.insertProject(ctx, conn, project); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || filepath.Ext(event.Name) != ".go" {
				continue
			}
			drv.Caches.Forget(event.Name)
			status := drv.ingestFile(ctx, conn, event.Name, opts, project.Name)
			slog.Info("ingest: watch re-ingest", "file", event.Name, "status", status.String())
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("ingest: watch", "error", werr)
		}
	}
}
