// Package config loads CLI defaults for the ingest and query entry
// points from a YAML file, with flag overrides layered on top. It is
// an external collaborator per spec.md §1 — the core pipeline
// (grammar/ingest/query) never imports it; only cmd/* does.
package config
