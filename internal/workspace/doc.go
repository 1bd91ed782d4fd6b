// Package workspace owns the per-job scratch directory.
//
// Each render job receives a fresh, uniquely named directory beneath a
// configured root. The directory holds the job file and the engine's media
// output tree, and is removed on every exit path once artifact bytes have been
// copied out. Removal failures are logged and never escalated so cleanup can
// not mask a job's primary result.
package workspace
