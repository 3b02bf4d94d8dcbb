// Package reconcile drives per-author scan batches: it queries the metadata
// providers, consolidates their candidate records, syncs the author's catalog
// book list, scores locally observed items against the candidates, and
// commits accepted matches as merge-preserving mutations. Each batch gets a
// session id and a scan history row.
package reconcile
