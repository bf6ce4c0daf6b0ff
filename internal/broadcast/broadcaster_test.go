package broadcast

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pscheid92/campuspulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeUpdate(sessionCode string, rating int) domain.PulseUpdate {
	return domain.PulseUpdate{
		Feedback: domain.Feedback{SessionCode: sessionCode, Rating: rating},
		Summary:  domain.SessionSummary{Code: sessionCode, TotalResponses: 1},
	}
}

func receiveUpdate(t *testing.T, sub *Subscription) domain.PulseUpdate {
	t.Helper()
	select {
	case update, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed unexpectedly")
		return update
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
		return domain.PulseUpdate{}
	}
}

func TestBroadcaster_PublishReachesSubscriber(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("ABCDEF")

	b.Publish(makeUpdate("ABCDEF", 5))

	update := receiveUpdate(t, sub)
	assert.Equal(t, "ABCDEF", update.Feedback.SessionCode)
	assert.Equal(t, 5, update.Feedback.Rating)
}

func TestBroadcaster_PublishIsCaseInsensitive(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("abcdef")

	b.Publish(makeUpdate("AbCdEf", 4))

	update := receiveUpdate(t, sub)
	assert.Equal(t, 4, update.Feedback.Rating)
}

func TestBroadcaster_OtherSessionsReceiveNothing(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("AAAAAA")

	b.Publish(makeUpdate("BBBBBB", 3))

	select {
	case update := <-sub.Updates():
		t.Fatalf("unexpected update: %+v", update)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_PublishWithoutSubscribersIsNoop(t *testing.T) {
	b := NewBroadcaster()
	// Must not panic or block
	b.Publish(makeUpdate("ABCDEF", 5))
}

func TestBroadcaster_MultipleSubscribersAllReceive(t *testing.T) {
	b := NewBroadcaster()
	subs := []*Subscription{b.Subscribe("ABCDEF"), b.Subscribe("ABCDEF"), b.Subscribe("ABCDEF")}

	b.Publish(makeUpdate("ABCDEF", 5))

	for _, sub := range subs {
		update := receiveUpdate(t, sub)
		assert.Equal(t, 5, update.Feedback.Rating)
	}
}

func TestBroadcaster_SubscriberOrderPreserved(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("ABCDEF")

	for i := 1; i <= 5; i++ {
		b.Publish(makeUpdate("ABCDEF", i))
	}

	for i := 1; i <= 5; i++ {
		update := receiveUpdate(t, sub)
		assert.Equal(t, i, update.Feedback.Rating)
	}
}

func TestBroadcaster_UnsubscribeClosesQueue(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("ABCDEF")

	b.Unsubscribe(sub)

	_, ok := <-sub.Updates()
	assert.False(t, ok, "queue should be closed")

	// Publishes after unsubscribe never appear and never error
	b.Publish(makeUpdate("ABCDEF", 5))
	assert.Equal(t, 0, b.SubscriberCount("ABCDEF"))
}

func TestBroadcaster_UnsubscribeIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	sub := b.Subscribe("ABCDEF")

	b.Unsubscribe(sub)
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)
}

func TestBroadcaster_UnsubscribeLeavesOthersIntact(t *testing.T) {
	b := NewBroadcaster()
	gone := b.Subscribe("ABCDEF")
	kept := b.Subscribe("ABCDEF")

	b.Unsubscribe(gone)
	b.Publish(makeUpdate("ABCDEF", 2))

	update := receiveUpdate(t, kept)
	assert.Equal(t, 2, update.Feedback.Rating)
	assert.Equal(t, 1, b.SubscriberCount("ABCDEF"))
}

func TestBroadcaster_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroadcaster()
	slow := b.Subscribe("ABCDEF")
	fast := b.Subscribe("ABCDEF")

	// Overflow the slow subscriber's queue; nobody reads it.
	total := updateBufferSize + 10
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			b.Publish(makeUpdate("ABCDEF", i%5+1))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}

	// Neither queue grew beyond its buffer; the excess was dropped.
	drained := 0
	for {
		select {
		case <-fast.Updates():
			drained++
			continue
		default:
		}
		break
	}
	assert.Equal(t, updateBufferSize, drained)
	assert.Len(t, slow.updates, updateBufferSize)
}

func TestBroadcaster_ConcurrentSubscribePublishUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			code := fmt.Sprintf("SESS%d%d", w%2+2, w%2+3)
			for i := 0; i < 100; i++ {
				sub := b.Subscribe(code)
				b.Publish(makeUpdate(code, i%5+1))
				b.Unsubscribe(sub)
			}
		}(w)
	}

	wg.Wait()
	assert.Equal(t, 0, b.SubscriberCount("SESS23"))
	assert.Equal(t, 0, b.SubscriberCount("SESS34"))
}
