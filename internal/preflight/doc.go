// Package preflight provides readiness checks for the filesystem paths a
// packaging run depends on.
//
// The CLI "plugpack check" command prints every result; the packaging command
// runs the same checks first and refuses to start when a required one fails,
// so that a run never gets halfway through merging artifacts before noticing
// that the manual root is unreadable.
package preflight
