// Package artifact locates the file(s) a render job actually produced.
//
// The engine's self-reported output path is trusted first when it exists on
// disk. Otherwise an ordered, format-aware search runs across the working
// directory, the current directory, and the engine's default media locations.
// Image sequences are collected into a single zip archive. Selection is by
// most recent modification time with a documented lexicographic tie-break, so
// resolution over a fixed directory snapshot is deterministic.
package artifact
