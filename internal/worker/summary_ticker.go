package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/campuspulse/internal/domain"
	"github.com/pscheid92/campuspulse/internal/metrics"
)

// summarySource is the subset of the repository the ticker reads.
type summarySource interface {
	ListSummaries() []domain.SessionSummary
}

// SummaryTicker periodically reads aggregate summaries and logs one snapshot
// line per session. Each tick observes a consistent repository snapshot.
type SummaryTicker struct {
	source   summarySource
	clock    clockwork.Clock
	interval time.Duration
}

// NewSummaryTicker creates a ticker that fires every interval.
func NewSummaryTicker(source summarySource, clock clockwork.Clock, interval time.Duration) *SummaryTicker {
	return &SummaryTicker{
		source:   source,
		clock:    clock,
		interval: interval,
	}
}

// Run starts the periodic summary loop. It blocks until ctx is cancelled.
func (t *SummaryTicker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.tick()
		}
	}
}

func (t *SummaryTicker) tick() {
	summaries := t.source.ListSummaries()
	if len(summaries) == 0 {
		return
	}

	for _, summary := range summaries {
		metrics.SessionResponses.WithLabelValues(summary.Code).Set(float64(summary.TotalResponses))
		slog.Info("Pulse snapshot",
			"session_code", summary.Code,
			"average_rating", summary.AverageRating,
			"total_responses", summary.TotalResponses,
			"positive_share", summary.PositiveShare,
		)
	}
}
