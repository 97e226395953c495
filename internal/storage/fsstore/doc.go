// Package fsstore provides a plain-directory Store implementation: one
// file per key, written atomically via temp-file rename plus fsync.
//
// It trades the throughput of the Pebble store for a layout that can be
// inspected and repaired with standard tools, and it needs no database
// directory of its own. A flock on the queue directory makes a second
// process opening the same location fail fast instead of silently
// corrupting state.
package fsstore
