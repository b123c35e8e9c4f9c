package store

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Caches holds the in-memory filename and project-name sets the
// ingest driver uses as its authoritative dedup: a filename or
// project already present is never re-inserted, regardless of what a
// concurrent worker's own uniqueness-constraint error might also
// catch.
type Caches struct {
	mu        sync.RWMutex
	filenames map[string]struct{}
	projects  map[string]struct{}
}

// NewCaches returns an empty Caches, ready to be populated by
// Refresh or LoadSnapshot.
func NewCaches() *Caches {
	return &Caches{
		filenames: make(map[string]struct{}),
		projects:  make(map[string]struct{}),
	}
}

// HasFilename reports whether name has already been ingested.
func (c *Caches) HasFilename(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.filenames[name]
	return ok
}

// AddFilename records name as ingested.
func (c *Caches) AddFilename(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filenames[name] = struct{}{}
}

// Forget removes name from the filename set, letting a subsequent
// HasFilename/AddFilename pair treat it as not-yet-ingested. Used by
// a watch-mode re-ingest to bypass the dedup for a file known to have
// changed on disk.
func (c *Caches) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.filenames, name)
}

// HasProject reports whether name's project row already exists.
func (c *Caches) HasProject(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.projects[name]
	return ok
}

// AddProject records name as having a project row.
func (c *Caches) AddProject(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projects[name] = struct{}{}
}

// Refresh rebuilds both sets from the backend: every distinct
// filename already inserted into the module table, and every project
// name already present, per spec.md §4.E's startup caches.
func (c *Caches) Refresh(ctx context.Context, q ExecQuerier) error {
	filenames, err := distinctColumn(ctx, q, "SELECT filename FROM files")
	if err != nil {
		return err
	}
	projects, err := distinctColumn(ctx, q, "SELECT name FROM projects")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range filenames {
		c.filenames[f] = struct{}{}
	}
	for _, p := range projects {
		c.projects[p] = struct{}{}
	}
	return nil
}

func distinctColumn(ctx context.Context, q ExecQuerier, query string) ([]string, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, &BackendError{Op: "refresh cache", Query: query, Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &BackendError{Op: "scan cache row", Query: query, Err: err}
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &BackendError{Op: "iterate cache rows", Query: query, Err: err}
	}
	return out, nil
}

// snapshot is the on-disk msgpack encoding of a Caches, letting a
// warm restart skip the startup Refresh round-trip against the
// backend.
type snapshot struct {
	Filenames []string `msgpack:"filenames"`
	Projects  []string `msgpack:"projects"`
}

// SaveSnapshot writes the current cache contents to path.
func (c *Caches) SaveSnapshot(path string) error {
	c.mu.RLock()
	snap := snapshot{
		Filenames: keys(c.filenames),
		Projects:  keys(c.projects),
	}
	c.mu.RUnlock()

	data, err := msgpack.Marshal(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads a Caches previously written by SaveSnapshot. A
// missing file is not an error: it returns an empty Caches, the same
// starting state as a first run.
func LoadSnapshot(path string) (*Caches, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewCaches(), nil
	}
	if err != nil {
		return nil, err
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	c := NewCaches()
	for _, f := range snap.Filenames {
		c.filenames[f] = struct{}{}
	}
	for _, p := range snap.Projects {
		c.projects[p] = struct{}{}
	}
	return c, nil
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
