// Package media defines the output formats and quality presets shared by the
// render pipeline.
//
// Formats map one-to-one to the file extensions the engine can emit (or that
// the fallback converter can derive), and presets form a static lookup table
// from a named quality tier to the engine flag, resolution label, and default
// frame rate used when invoking the engine.
//
// The preset table is immutable at runtime; callers receive copies.
package media
