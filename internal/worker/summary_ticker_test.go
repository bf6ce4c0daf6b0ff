package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/campuspulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSummarySource struct {
	mu        sync.Mutex
	summaries []domain.SessionSummary
	calls     int
}

func (m *mockSummarySource) ListSummaries() []domain.SessionSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.summaries
}

func (m *mockSummarySource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestSummaryTicker_ReadsSummariesEveryTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	source := &mockSummarySource{
		summaries: []domain.SessionSummary{
			{Code: "ABCDEF", TotalResponses: 3, AverageRating: 4.5},
		},
	}
	ticker := NewSummaryTicker(source, clock, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ticker.Run(ctx)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	for i := 1; i <= 3; i++ {
		clock.Advance(30 * time.Second)
		require.Eventually(t, func() bool {
			return source.callCount() == i
		}, time.Second, time.Millisecond)
	}
}

func TestSummaryTicker_StopsOnContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	source := &mockSummarySource{}
	ticker := NewSummaryTicker(source, clock, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ticker.Run(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop after cancellation")
	}
	assert.Equal(t, 0, source.callCount())
}
