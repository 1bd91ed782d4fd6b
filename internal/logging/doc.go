// Package logging assembles the structured slog loggers used across the
// render pipeline.
//
// It owns level parsing, console/JSON handler selection, and optional file
// routing, and exposes attribute helpers so components emit log lines with a
// consistent shape. A no-op logger is provided for tests and wiring code that
// cannot fail.
package logging
