// Package bookid implements the matching and identity resolution engine that
// reconciles locally observed audiobooks against provider catalog records.
//
// The engine is a pure decision layer: provider clients fetch candidate
// records, the scanner and library client produce observed items, and the
// catalog store commits the mutation specs this package emits. Nothing in
// bookid performs I/O or holds state between calls, so every function is safe
// to invoke concurrently across independent (observed, candidate-set) pairs.
//
// Scoring combines exact identifier checks with fuzzy title, author, duration,
// and series similarity into one bounded integer score (0-130) with a retained
// per-criterion breakdown. Rank orders a candidate set for one observed item
// with a deterministic tie-break chain and surfaces exact ties for manual
// review instead of silently picking a winner. ResolvePreferred merges the
// same logical book across providers using the fixed provider priority order
// shared with the ranker tie-break.
//
// ApplyMatch translates an accepted match into field-level merge-preserving
// writes: descriptive fields only fill holes in the persisted record, while
// match confidence and method always refresh.
package bookid
