// Package staging guards and maintains the per-scope staging directories.
//
// A packaging run holds an exclusive file lock on "<staging>.lock" for its
// whole duration so that two runs never merge artifacts into the same tree.
// Bundles that were skipped (no manual, no version) stay in staging after a
// run; the cleanup helpers here remove them, or the whole tree, on request.
package staging
