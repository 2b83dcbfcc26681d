// Package sqlite provides the SQLite-backed run store. It records batch
// runs and per-item outcomes so interrupted fetches can resume without
// re-downloading surveys that already succeeded.
package sqlite
