package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusroll/campusroll-api/internal/dto"
)

const (
	liveFeedBufferSize = 16
	liveFeedChannel    = "campusroll:live:attendance"
)

// LiveFeedService fans live attendance events out to websocket subscribers.
// Events are broadcast in-process and mirrored over a redis channel so every
// API node sees marks accepted by its peers.
type LiveFeedService interface {
	Publish(ctx context.Context, event dto.LiveAttendanceEvent)
	Subscribe(sessionID uint) (<-chan dto.LiveAttendanceEvent, func())
	Start(ctx context.Context)
}

type liveFeedService struct {
	redis  *redis.Client
	logger zerolog.Logger
	nodeID string
	broker *liveBroker
}

type liveEnvelope struct {
	Source string                  `json:"source"`
	Event  dto.LiveAttendanceEvent `json:"event"`
}

// NewLiveFeedService constructs the live feed service. A nil redis client
// degrades to single-node, in-process delivery.
func NewLiveFeedService(redisClient *redis.Client, logger zerolog.Logger) LiveFeedService {
	return &liveFeedService{
		redis:  redisClient,
		logger: logger.With().Str("component", "live_feed_service").Logger(),
		nodeID: uuid.NewString(),
		broker: &liveBroker{subscribers: make(map[uint]map[chan dto.LiveAttendanceEvent]struct{})},
	}
}

func (s *liveFeedService) Publish(ctx context.Context, event dto.LiveAttendanceEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	s.broker.broadcast(event)

	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(liveEnvelope{Source: s.nodeID, Event: event})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode live event")
		return
	}
	if err := s.redis.Publish(ctx, liveFeedChannel, payload).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish live event")
	}
}

func (s *liveFeedService) Subscribe(sessionID uint) (<-chan dto.LiveAttendanceEvent, func()) {
	return s.broker.subscribe(sessionID)
}

// Start consumes the redis channel and rebroadcasts events originating from
// other nodes. It returns when the context is cancelled.
func (s *liveFeedService) Start(ctx context.Context) {
	if s.redis == nil {
		return
	}

	pubsub := s.redis.Subscribe(ctx, liveFeedChannel)
	go func() {
		defer pubsub.Close()
		channel := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-channel:
				if !ok {
					return
				}
				var envelope liveEnvelope
				if err := json.Unmarshal([]byte(message.Payload), &envelope); err != nil {
					s.logger.Warn().Err(err).Msg("failed to decode live event")
					continue
				}
				if envelope.Source == s.nodeID {
					continue
				}
				s.broker.broadcast(envelope.Event)
			}
		}
	}()
}

type liveBroker struct {
	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.LiveAttendanceEvent]struct{}
}

func (b *liveBroker) subscribe(sessionID uint) (<-chan dto.LiveAttendanceEvent, func()) {
	channel := make(chan dto.LiveAttendanceEvent, liveFeedBufferSize)

	b.mu.Lock()
	if b.subscribers[sessionID] == nil {
		b.subscribers[sessionID] = make(map[chan dto.LiveAttendanceEvent]struct{})
	}
	b.subscribers[sessionID][channel] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subscribers[sessionID]; ok {
			if _, subscribed := set[channel]; subscribed {
				delete(set, channel)
				close(channel)
			}
			if len(set) == 0 {
				delete(b.subscribers, sessionID)
			}
		}
		b.mu.Unlock()
	}
	return channel, cancel
}

func (b *liveBroker) broadcast(event dto.LiveAttendanceEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for channel := range b.subscribers[event.SessionID] {
		select {
		case channel <- event:
		default:
			// Slow subscriber; drop rather than stall the feed.
		}
	}
}
