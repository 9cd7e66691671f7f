// Package main hosts the plugpack CLI entrypoint and command graph.
//
// Running plugpack without a subcommand packages every configured scope in
// order (macOS-only first, then full). Subcommands inspect the inputs and the
// results of a run: resolved versions, the archive ledger, staging
// directories, preflight checks and configuration.
//
// Keep this package lean: behavior lives in the internal packages and is only
// surfaced here through commands and flags.
package main
