// Package catalog implements the Catalog Builder: deduplicating every
// attribute and metric definition encountered during resolution into two
// indexed catalogs, and translating internal/resolve's definition-addressed
// Materialized tree into the index-addressed Resolved Schema output model.
//
// Grounded on internal/workerpool.Coordinator for the single-owner index
// assignment spec calls for ("workers request an index via a send/wait
// channel"); the coordinator here plays that owner role directly rather
// than over a channel, since the builder is driven from a single
// resolution's already-ordered merge output rather than a live worker pool.
package catalog
