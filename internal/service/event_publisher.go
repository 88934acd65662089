package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Event types emitted by the lifecycle services.
const (
	EventSubmissionGraded = "submission.graded"
	EventGrievanceUpdated = "grievance.updated"
	EventBatchCompleted   = "batch.completed"
)

// EventPublisher fans domain events out to interested consumers.
// Publishing is best effort: a broker outage never fails the action
// that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{})
}

type eventEnvelope struct {
	ID         string                 `json:"id"`
	Source     string                 `json:"source"`
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

type brokerEventPublisher struct {
	redis   *redis.Client
	channel string
	nats    *nats.Conn
	subject string
	logger  zerolog.Logger
	nodeID  string
	now     func() time.Time
}

// NewEventPublisher constructs a publisher that mirrors events to a
// Redis channel and a NATS subject derived from channelBase. Either
// client may be nil, in which case that leg is skipped.
func NewEventPublisher(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) EventPublisher {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &brokerEventPublisher{
		redis:   redisClient,
		channel: channel,
		nats:    natsConn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
		nodeID:  uuid.NewString(),
		now:     time.Now,
	}
}

func (p *brokerEventPublisher) Publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	envelope := eventEnvelope{
		ID:         uuid.NewString(),
		Source:     p.nodeID,
		Type:       eventType,
		Payload:    payload,
		OccurredAt: p.now().UTC(),
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to encode event")
		return
	}

	if p.redis != nil && p.channel != "" {
		if err := p.redis.Publish(ctx, p.channel, body).Err(); err != nil {
			p.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish event to redis")
		}
	}

	if p.nats != nil && p.subject != "" {
		if err := p.nats.Publish(p.subject, body); err != nil {
			p.logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish event to nats")
		}
	}
}
