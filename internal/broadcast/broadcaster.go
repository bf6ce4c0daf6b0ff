package broadcast

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pscheid92/campuspulse/internal/domain"
	"github.com/pscheid92/campuspulse/internal/metrics"
)

// updateBufferSize bounds each subscriber's delivery queue. A consumer that
// falls further behind than this loses updates instead of blocking publishers.
const updateBufferSize = 16

// Subscription is one consumer's registered interest in a session's updates.
type Subscription struct {
	sessionCode string
	id          uuid.UUID
	updates     chan domain.PulseUpdate
}

// SessionCode returns the normalized session code this subscription follows.
func (s *Subscription) SessionCode() string {
	return s.sessionCode
}

// ID returns the subscription identity.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// Updates returns the read side of the delivery queue. The channel is closed
// when the subscription is removed, terminating any consumption loop.
func (s *Subscription) Updates() <-chan domain.PulseUpdate {
	return s.updates
}

// Broadcaster fans out pulse updates to the live subscribers of each session.
type Broadcaster struct {
	mu      sync.RWMutex
	streams map[string]map[uuid.UUID]*Subscription
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		streams: make(map[string]map[uuid.UUID]*Subscription),
	}
}

// Subscribe registers a new subscription for the session code. Subscribing to
// a code with no matching session is allowed; the subscription simply receives
// nothing until a matching publish occurs.
func (b *Broadcaster) Subscribe(sessionCode string) *Subscription {
	sub := &Subscription{
		sessionCode: normalizeCode(sessionCode),
		id:          uuid.New(),
		updates:     make(chan domain.PulseUpdate, updateBufferSize),
	}

	b.mu.Lock()
	group, exists := b.streams[sub.sessionCode]
	if !exists {
		group = make(map[uuid.UUID]*Subscription)
		b.streams[sub.sessionCode] = group
		metrics.BroadcastSessions.Set(float64(len(b.streams)))
	}
	group[sub.id] = sub
	b.mu.Unlock()

	metrics.BroadcastSubscribers.Inc()
	slog.Debug("Subscriber registered", "session_code", sub.sessionCode, "subscription_id", sub.id.String())
	return sub
}

// Unsubscribe removes the subscription and closes its queue so the consumer
// loop terminates. Safe to call repeatedly or on already-removed handles.
//
// The channel close happens under the write lock. Publish sends under the read
// lock, so a send can never race a close.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	group, exists := b.streams[sub.sessionCode]
	if !exists {
		return
	}
	if _, exists := group[sub.id]; !exists {
		return
	}

	delete(group, sub.id)
	close(sub.updates)
	if len(group) == 0 {
		delete(b.streams, sub.sessionCode)
		metrics.BroadcastSessions.Set(float64(len(b.streams)))
	}

	metrics.BroadcastSubscribers.Dec()
	slog.Debug("Subscriber removed", "session_code", sub.sessionCode, "subscription_id", sub.id.String())
}

// Publish enqueues the update onto every current subscriber of the session.
// Best-effort: a full queue drops the update for that subscriber only, and a
// session with no subscribers is a no-op.
func (b *Broadcaster) Publish(update domain.PulseUpdate) {
	code := normalizeCode(update.Feedback.SessionCode)

	b.mu.RLock()
	defer b.mu.RUnlock()

	group, exists := b.streams[code]
	if !exists {
		return
	}

	for _, sub := range group {
		select {
		case sub.updates <- update:
			metrics.BroadcastDeliveredTotal.Inc()
		default:
			metrics.BroadcastDroppedTotal.Inc()
			slog.Debug("Dropped update for slow subscriber", "session_code", code, "subscription_id", sub.id.String())
		}
	}
}

// SubscriberCount returns the number of live subscriptions for a session.
func (b *Broadcaster) SubscriberCount(sessionCode string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.streams[normalizeCode(sessionCode)])
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
