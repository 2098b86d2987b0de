// Package reindex rebuilds derived document data across a whole database.
// It recomputes stored document statistics and repopulates the in-memory
// corpus index, processing documents in batches with progress reporting
// and retry on transient storage failures.
package reindex
