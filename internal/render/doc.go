// Package render orchestrates one animation job end to end: workspace
// allocation, job-file preparation, engine execution with live progress,
// artifact resolution, the animated-image fallback conversion, and cleanup.
// One job runs at a time per workspace root.
package render
