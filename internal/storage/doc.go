// Package storage persists the full pulse dataset as a JSON snapshot file.
//
// The file holds two ordered collections: sessions and feedbackEntries. Every
// save rewrites the whole file atomically (temp file + rename), so readers
// never observe a partially written snapshot.
package storage
