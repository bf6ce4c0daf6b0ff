// Package broadcast implements the per-session live-update fan-out.
//
// Each subscription owns a buffered channel written by many publishers and
// read by one consumer. Publish never blocks: a full channel drops the update
// rather than stalling the publisher or the other subscribers.
package broadcast
