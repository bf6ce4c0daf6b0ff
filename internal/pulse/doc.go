// Package pulse implements the repository that owns all session and feedback state.
//
// A single RWMutex guards the whole aggregate: reads take the shared lock,
// mutations take the exclusive lock and cover the durable snapshot rewrite, so
// two writers never interleave their file writes and summaries never observe a
// torn read. Summaries are recomputed on demand and never stored.
package pulse
