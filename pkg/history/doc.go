// Package history persists a record of every successful render in a
// local SQLite database.
//
// Each row carries the run ID, the template and output paths, the key
// count, and a SHA-256 checksum of the emitted content. Because
// emission is deterministic, an unchanged checksum across renders is
// the witness that a re-deployment is a true no-op; a changed checksum
// pinpoints when the configuration actually moved. The schema is
// managed with embedded golang-migrate migrations.
package history
