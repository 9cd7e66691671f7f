// Package pipeline runs one packaging pass over a scope.
//
// A pass locks the scope's staging directory, collects artifacts into it and
// then walks every bundle found there in name order:
//
//  1. resolve the plugin's manual; without one the bundle is skipped and left
//     in staging
//  2. copy the manual into the bundle
//  3. check that the scope's required platform binaries exist; a missing one
//     stops the pass immediately with a *bundle.MissingBinaryError
//  4. look up the plugin version; without one the bundle is skipped
//  5. move the bundle into its release directory, add presets, write the zip
//  6. record the archive in the history ledger
//
// Archives written before a failure remain on disk.
package pipeline
