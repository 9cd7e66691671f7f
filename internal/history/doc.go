// Package history keeps a SQLite ledger of produced archives.
//
// Every archive a packaging run writes is recorded with its run identifier,
// scope, plugin, version, path, size and SHA-256 digest. The ledger answers
// "which release of FooSynth did we ship last, and what was its checksum"
// without digging through staging directories that may have been cleaned.
//
// The store uses WAL journaling and retries briefly on SQLITE_BUSY so that
// `plugpack history` can read while a run is writing.
package history
