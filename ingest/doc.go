// Package ingest drives the parse → transform → serialize → commit
// pipeline over a dataset of projects, grounded on the original
// implementation's reiz/inserter.py (per-project worker, filename
// cache, CACHED/SKIPPED/INSERTED/FAILED bookkeeping) and on the
// teacher's errgroup-based parallel file generation in
// compiler/gen/writer.go for the worker-pool shape.
package ingest
