// Package preflight verifies the host environment before a render runs:
// required binaries on PATH, workspace directory permissions, and free disk
// space. The CLI status command reports the same checks.
package preflight
