package pulse

import (
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/campuspulse/internal/domain"
	"github.com/pscheid92/campuspulse/internal/errors"
	"github.com/pscheid92/campuspulse/internal/logging"
	"github.com/pscheid92/campuspulse/internal/metrics"
	"github.com/pscheid92/campuspulse/internal/storage"
)

const (
	// codeAlphabet excludes visually confusable characters (0/O, 1/I).
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6

	defaultSpeaker     = "Guest Speaker"
	defaultStartOffset = time.Hour
)

// Repository is the single source of truth for sessions and feedback.
// All reads take the shared lock, all mutations take the exclusive lock,
// and mutations include the durable snapshot rewrite.
type Repository struct {
	mu              sync.RWMutex
	sessions        []domain.Session
	feedbackEntries []domain.Feedback

	store       *storage.FileStore
	scorer      domain.Scorer
	clock       clockwork.Clock
	maxFeedback int
}

// NewRepository loads the last snapshot from store, falling back to a seed
// dataset when the snapshot is missing or unreadable, and persists the result.
// maxFeedback caps retained entries per session; zero or negative disables the cap.
func NewRepository(store *storage.FileStore, scorer domain.Scorer, clock clockwork.Clock, maxFeedback int) (*Repository, error) {
	r := &Repository{
		store:       store,
		scorer:      scorer,
		clock:       clock,
		maxFeedback: maxFeedback,
	}

	snapshot, err := store.Load()
	if err != nil {
		logging.WithError(err).Warn("Snapshot unreadable, falling back to seed data", "path", store.Path())
		snapshot = nil
	}
	if snapshot == nil {
		seeded := r.seedData()
		snapshot = &seeded
		slog.Info("Seeded example dataset", "sessions", len(snapshot.Sessions), "feedback", len(snapshot.FeedbackEntries))
	}

	r.sessions = snapshot.Sessions
	r.feedbackEntries = snapshot.FeedbackEntries

	if err := r.persistLocked(); err != nil {
		return nil, err
	}

	for _, session := range r.sessions {
		metrics.SessionResponses.WithLabelValues(session.Code).Set(float64(r.countFeedbackLocked(session.Code)))
	}

	slog.Info("Pulse repository ready", "data_file", store.Path(), "sessions", len(r.sessions), "feedback", len(r.feedbackEntries))
	return r, nil
}

// ListSessions returns all sessions ordered by start time ascending.
func (r *Repository) ListSessions() []domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]domain.Session, len(r.sessions))
	copy(sessions, r.sessions)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartAt.Before(sessions[j].StartAt)
	})
	return sessions
}

// GetSession returns the session whose code matches case-insensitively.
func (r *Repository) GetSession(code string) (domain.Session, error) {
	normalized := normalizeCode(code)

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.findSessionLocked(normalized)
	if !ok {
		return domain.Session{}, errors.NotFoundError("session code not found").WithContext("session_code", normalized)
	}
	return session, nil
}

// CreateSession validates the title, applies speaker and start-time defaults,
// generates a fresh unique code, and persists the new session.
func (r *Repository) CreateSession(title, speaker string, startAt *time.Time) (domain.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Session{}, errors.ValidationError("title is required")
	}

	speaker = strings.TrimSpace(speaker)
	if speaker == "" {
		speaker = defaultSpeaker
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now().UTC()
	start := now.Add(defaultStartOffset)
	if startAt != nil {
		start = startAt.UTC()
	}

	session := domain.Session{
		Code:      r.generateCodeLocked(),
		Title:     title,
		Speaker:   speaker,
		StartAt:   start,
		CreatedAt: now,
	}
	r.sessions = append(r.sessions, session)

	if err := r.persistLocked(); err != nil {
		return domain.Session{}, err
	}

	metrics.SessionsCreatedTotal.Inc()
	logging.WithSession(session.Code).Info("Session created", "title", session.Title)
	return session, nil
}

// AddFeedback scores the trimmed comment, stores a new feedback record for the
// session, applies retention trimming, and persists. Returns a not-found error
// if no session matches the code. Out-of-range ratings are stored as given;
// range checks belong to the caller.
func (r *Repository) AddFeedback(sessionCode string, rating int, comment string) (domain.Feedback, error) {
	normalized := normalizeCode(sessionCode)
	comment = strings.TrimSpace(comment)

	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.findSessionLocked(normalized)
	if !ok {
		return domain.Feedback{}, errors.NotFoundError("session code not found").WithContext("session_code", normalized)
	}

	feedback := domain.Feedback{
		ID:             uuid.New(),
		SessionCode:    session.Code,
		Rating:         rating,
		Comment:        comment,
		SentimentScore: r.scorer.Score(comment),
		CreatedAt:      r.clock.Now().UTC(),
	}
	r.feedbackEntries = append(r.feedbackEntries, feedback)
	trimmed := r.trimFeedbackLocked(session.Code)

	if err := r.persistLocked(); err != nil {
		return domain.Feedback{}, err
	}

	metrics.FeedbackSubmittedTotal.Inc()
	if trimmed > 0 {
		metrics.FeedbackTrimmedTotal.Add(float64(trimmed))
	}
	metrics.SessionResponses.WithLabelValues(session.Code).Set(float64(r.countFeedbackLocked(session.Code)))

	return feedback, nil
}

// ListFeedback returns the most recent feedback entries for a session, newest
// first, at most limit entries (limit <= 0 returns all). An unknown session
// code yields an empty slice; callers check session existence separately.
func (r *Repository) ListFeedback(code string, limit int) []domain.Feedback {
	normalized := normalizeCode(code)

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.feedbackForSessionLocked(normalized)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// GetSummary computes the aggregate summary for one session.
func (r *Repository) GetSummary(code string) (domain.SessionSummary, error) {
	normalized := normalizeCode(code)

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.findSessionLocked(normalized)
	if !ok {
		return domain.SessionSummary{}, errors.NotFoundError("session code not found").WithContext("session_code", normalized)
	}
	return r.buildSummaryLocked(session), nil
}

// ListSummaries computes summaries for all sessions, ordered by start time ascending.
func (r *Repository) ListSummaries() []domain.SessionSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]domain.SessionSummary, 0, len(r.sessions))
	for _, session := range r.sessions {
		summaries = append(summaries, r.buildSummaryLocked(session))
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].StartAt.Before(summaries[j].StartAt)
	})
	return summaries
}

// --- internals (callers hold the appropriate lock) ---

func (r *Repository) findSessionLocked(normalized string) (domain.Session, bool) {
	for _, session := range r.sessions {
		if strings.EqualFold(session.Code, normalized) {
			return session, true
		}
	}
	return domain.Session{}, false
}

// feedbackForSessionLocked returns the session's entries newest first.
// Entries are collected in reverse insertion order so equal timestamps still
// sort newest submission first.
func (r *Repository) feedbackForSessionLocked(normalized string) []domain.Feedback {
	var entries []domain.Feedback
	for i := len(r.feedbackEntries) - 1; i >= 0; i-- {
		if strings.EqualFold(r.feedbackEntries[i].SessionCode, normalized) {
			entries = append(entries, r.feedbackEntries[i])
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

func (r *Repository) countFeedbackLocked(code string) int {
	count := 0
	for _, f := range r.feedbackEntries {
		if strings.EqualFold(f.SessionCode, code) {
			count++
		}
	}
	return count
}

func (r *Repository) buildSummaryLocked(session domain.Session) domain.SessionSummary {
	summary := domain.SessionSummary{
		Code:    session.Code,
		Title:   session.Title,
		Speaker: session.Speaker,
		StartAt: session.StartAt,
	}

	var ratingSum, sentimentSum, positive int
	var last time.Time
	for _, f := range r.feedbackEntries {
		if !strings.EqualFold(f.SessionCode, session.Code) {
			continue
		}
		summary.TotalResponses++
		ratingSum += f.Rating
		sentimentSum += f.SentimentScore
		if f.SentimentScore > 0 {
			positive++
		}
		if f.CreatedAt.After(last) {
			last = f.CreatedAt
		}
	}

	if summary.TotalResponses > 0 {
		total := float64(summary.TotalResponses)
		summary.AverageRating = float64(ratingSum) / total
		summary.SentimentAverage = float64(sentimentSum) / total
		summary.PositiveShare = float64(positive) / total
		lastAt := last
		summary.LastUpdatedAt = &lastAt
	}
	return summary
}

// trimFeedbackLocked drops the oldest entries beyond the retention cap for one
// session. Runs inside the same critical section as the insertion, so the two
// are atomic together. Returns the number of evicted entries.
func (r *Repository) trimFeedbackLocked(code string) int {
	if r.maxFeedback <= 0 {
		return 0
	}

	entries := r.feedbackForSessionLocked(code)
	if len(entries) <= r.maxFeedback {
		return 0
	}

	evicted := make(map[uuid.UUID]struct{}, len(entries)-r.maxFeedback)
	for _, f := range entries[r.maxFeedback:] {
		evicted[f.ID] = struct{}{}
	}

	kept := r.feedbackEntries[:0]
	for _, f := range r.feedbackEntries {
		if _, drop := evicted[f.ID]; !drop {
			kept = append(kept, f)
		}
	}
	r.feedbackEntries = kept
	return len(evicted)
}

// generateCodeLocked draws codes until one is unused. The loop is unbounded;
// collisions in a 32^6 space are rare.
func (r *Repository) generateCodeLocked() string {
	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := r.findSessionLocked(code); !exists {
			return code
		}
	}
}

// persistLocked rewrites the durable snapshot. A failed write propagates to
// the caller with in-memory state already mutated; memory and disk stay
// inconsistent until the next successful mutation.
func (r *Repository) persistLocked() error {
	snapshot := storage.Snapshot{
		Sessions:        r.sessions,
		FeedbackEntries: r.feedbackEntries,
	}
	if err := r.store.Save(&snapshot); err != nil {
		return errors.PersistenceError("failed to write pulse snapshot", err).WithContext("path", r.store.Path())
	}
	return nil
}

func (r *Repository) seedData() storage.Snapshot {
	now := r.clock.Now().UTC()

	sessionOne := domain.Session{
		Code:      "MSA234",
		Title:     "Build Your First API",
		Speaker:   "Campus Ambassador",
		StartAt:   now.Add(1 * time.Hour),
		CreatedAt: now,
	}
	sessionTwo := domain.Session{
		Code:      "AZURE2",
		Title:     "Cloud in 15 Minutes",
		Speaker:   "Student Lead",
		StartAt:   now.Add(2 * time.Hour),
		CreatedAt: now,
	}

	comments := []struct {
		code    string
		rating  int
		comment string
		age     time.Duration
	}{
		{sessionOne.Code, 5, "Great pace and clear demos", 28 * time.Minute},
		{sessionOne.Code, 4, "Useful examples, slightly fast", 12 * time.Minute},
		{sessionTwo.Code, 5, "Awesome intro to cloud services", 18 * time.Minute},
	}

	feedback := make([]domain.Feedback, 0, len(comments))
	for _, c := range comments {
		feedback = append(feedback, domain.Feedback{
			ID:             uuid.New(),
			SessionCode:    c.code,
			Rating:         c.rating,
			Comment:        c.comment,
			SentimentScore: r.scorer.Score(c.comment),
			CreatedAt:      now.Add(-c.age),
		})
	}

	return storage.Snapshot{
		Sessions:        []domain.Session{sessionOne, sessionTwo},
		FeedbackEntries: feedback,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
