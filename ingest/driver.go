package ingest

import (
	"context"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/reizio/reiz"
	"github.com/reizio/reiz/astxform"
	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/ir"
	"github.com/reizio/reiz/schemagen"
	"github.com/reizio/reiz/serialize"
	"github.com/reizio/reiz/store"
)

// Driver holds everything one Ingest run shares across workers: the
// connection pool, the dedup caches, and the loaded grammar/field-db
// pair Serialize needs. One Driver is safe to share across the worker
// pool, matching spec.md §5's "each task owns one connection... the
// caches... guarded against duplicate inserts by the uniqueness
// constraint."
type Driver struct {
	Pool    *store.Pool
	Caches  *store.Caches
	Model   *grammar.Model
	FieldDB *schemagen.FieldDB
}

// NewDriver builds a Driver over an already-open pool. Callers
// typically populate caches via Caches.Refresh or store.LoadSnapshot
// before the first Ingest call.
func NewDriver(pool *store.Pool, caches *store.Caches, model *grammar.Model, fieldDB *schemagen.FieldDB) *Driver {
	return &Driver{Pool: pool, Caches: caches, Model: model, FieldDB: fieldDB}
}

// insertProject inserts project's row if its name isn't already
// cached, updating the cache on success. The projects table is
// outside the grammar-generated schema (schemagen only emits tables
// for grammar types); its shape follows reiz.Project's own fields.
func (d *Driver) insertProject(ctx context.Context, conn *store.Conn, project reiz.Project) error {
	if d.Caches.HasProject(project.Name) {
		return nil
	}

	stmt := &ir.Insert{
		Into: "projects",
		Fields: []ir.KV{
			{Key: "id", Value: ir.Literal{Text: strconv.Quote(uuid.New().String())}},
			{Key: "name", Value: ir.Literal{Text: strconv.Quote(project.Name)}},
			{Key: "downloads", Value: ir.Literal{Text: strconv.Itoa(project.Downloads)}},
			{Key: "git_source", Value: ir.Literal{Text: strconv.Quote(project.GitSource)}},
			{Key: "git_revision", Value: ir.Literal{Text: strconv.Quote(project.GitRev)}},
			{Key: "license_type", Value: ir.Literal{Text: strconv.Quote(project.License)}},
		},
	}
	query := ir.Print(stmt)
	if _, err := conn.ExecContext(ctx, query); err != nil {
		return store.ClassifyError(d.Pool.Dialect(), "insert project", query, err)
	}

	d.Caches.AddProject(project.Name)
	return nil
}

// ingestFile runs one file through sanitize → parse → transform →
// serialize → commit, returning the outcome status spec.md §4.E
// names. It never returns an error: every failure mode is reported as
// reiz.StatusFailed (or StatusSkipped) and logged, per spec.md §5's
// "the driver retries no failure automatically."
func (d *Driver) ingestFile(ctx context.Context, conn *store.Conn, path string, opts Options, projectName string) reiz.Status {
	if d.Caches.HasFilename(path) {
		return reiz.StatusCached
	}

	src, err := os.ReadFile(path)
	if err != nil {
		slog.Error("ingest: read source", "file", path, "error", err)
		return reiz.StatusFailed
	}

	if opts.FastMode && len(src) > opts.FastModeThreshold {
		slog.Info("ingest: skipped oversize file in fast mode", "file", path, "bytes", len(src))
		return reiz.StatusSkipped
	}

	if !Sanitize(path, src) {
		slog.Info("ingest: skipped unparsable file", "file", path)
		return reiz.StatusSkipped
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.AllErrors)
	if err != nil {
		slog.Error("ingest: parse", "file", path, "error", err)
		return reiz.StatusFailed
	}

	arena := astxform.Transform(file)
	result, err := serialize.Serialize(arena, serialize.Context{Model: d.Model, FieldDB: d.FieldDB, Filename: path, ProjectName: projectName})
	if err != nil {
		slog.Error("ingest: serialize", "file", path, "error", err)
		return reiz.StatusFailed
	}

	if err := d.commit(ctx, conn, result); err != nil {
		slog.Error("ingest: commit", "file", path, "error", err)
		return reiz.StatusFailed
	}

	d.Caches.AddFilename(path)
	slog.Info("ingest: inserted", "file", path)
	return reiz.StatusInserted
}

// commit runs result's INSERTs and `_module` UPDATEs in a single
// transaction scoped to conn, per spec.md §5: "within a file, all
// INSERTs and the subsequent _module UPDATEs run in a single
// transaction; their in-file order is deterministic."
func (d *Driver) commit(ctx context.Context, conn *store.Conn, result *serialize.Result) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return &store.BackendError{Op: "begin", Err: err}
	}

	for _, stmt := range result.Statements {
		query := ir.Print(stmt)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			tx.Rollback()
			return store.ClassifyError(d.Pool.Dialect(), "insert", query, err)
		}
	}
	for _, stmt := range result.ModuleUpdates {
		query := ir.Print(stmt)
		if _, err := tx.ExecContext(ctx, query); err != nil {
			tx.Rollback()
			return store.ClassifyError(d.Pool.Dialect(), "update", query, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return store.ClassifyError(d.Pool.Dialect(), "commit", "", err)
	}
	return nil
}
