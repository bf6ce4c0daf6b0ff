// Package domain defines the core domain types and interfaces.
//
// This package contains the model types (Session, Feedback, SessionSummary),
// the broadcast event type, and the cross-cutting interfaces the other
// packages implement. No implementation code - just contracts.
package domain
