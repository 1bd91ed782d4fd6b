// Package services defines shared utilities consumed by the render pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures by
//     the stage that produced them (setup, engine, conversion).
//   - Thin abstractions that make command execution and progress streaming
//     from external tools testable.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across components.
package services
