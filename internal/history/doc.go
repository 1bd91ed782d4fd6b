// Package history persists completed render jobs to a local SQLite database
// so the CLI can list past work. Recording is best-effort: the pipeline does
// not fail a render because the history write failed.
package history
