// Package collector gathers CI build artifacts into a scope's staging
// directory.
//
// Artifacts arrive either as zip files (manual packaging) or as directories
// downloaded by the CI runner. Both are merged into one staging tree. Merging
// is destructive: a file that already exists in staging at the same relative
// path is overwritten, so collecting the same inputs twice leaves the same
// file set behind. After merging, debug symbol bundles are removed and, for
// scopes that ask for it, OS metadata and stray icon files are stripped.
package collector
