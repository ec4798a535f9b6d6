package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/campusroll/campusroll-api/internal/dto"
)

func TestLiveFeedLocalDelivery(t *testing.T) {
	feed := NewLiveFeedService(nil, testLogger())

	events, cancel := feed.Subscribe(5)
	defer cancel()

	feed.Publish(context.Background(), dto.LiveAttendanceEvent{Type: dto.LiveEventMarked, SessionID: 5, StudentID: 1})

	select {
	case event := <-events:
		require.Equal(t, uint(5), event.SessionID)
		require.NotEmpty(t, event.EventID)
	default:
		t.Fatal("expected the subscriber to receive the event")
	}

	// A subscriber on another session sees nothing.
	other, cancelOther := feed.Subscribe(6)
	defer cancelOther()
	feed.Publish(context.Background(), dto.LiveAttendanceEvent{Type: dto.LiveEventMarked, SessionID: 5, StudentID: 2})
	require.Empty(t, other)
}

func TestLiveFeedFansOutAcrossNodes(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	clientA := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer clientA.Close()
	clientB := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer clientB.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	nodeA := NewLiveFeedService(clientA, testLogger())
	nodeB := NewLiveFeedService(clientB, testLogger())
	nodeB.Start(ctx)

	events, unsubscribe := nodeB.Subscribe(5)
	defer unsubscribe()

	// Give the subscription loop a moment to attach before publishing.
	require.Eventually(t, func() bool {
		nodeA.Publish(ctx, dto.LiveAttendanceEvent{Type: dto.LiveEventMarked, SessionID: 5, StudentID: 1})
		select {
		case event := <-events:
			return event.SessionID == 5
		default:
			return false
		}
	}, 2*time.Second, 50*time.Millisecond)
}

func TestLiveFeedCancelStopsDelivery(t *testing.T) {
	feed := NewLiveFeedService(nil, testLogger())

	events, cancel := feed.Subscribe(5)
	cancel()

	_, open := <-events
	require.False(t, open, "cancel must close the subscriber channel")

	// Publishing after cancel must not panic.
	feed.Publish(context.Background(), dto.LiveAttendanceEvent{Type: dto.LiveEventMarked, SessionID: 5})
}
