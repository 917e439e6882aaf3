package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/flipmagic/brand-onboarder/internal/metrics"
)

// SubjectRowProcessed is the subject row outcome events are published on.
const SubjectRowProcessed = "evt.onboarding.row.v1"

// RowEvent describes the outcome of one processed CSV row.
type RowEvent struct {
	BatchID    string    `json:"batch_id"`
	Row        int       `json:"row"`
	Brand      string    `json:"brand"`
	Outcome    string    `json:"outcome"` // "success" or "error"
	Error      string    `json:"error,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// jetStreamPublisher is the slice of nats.JetStreamContext the publisher needs.
type jetStreamPublisher interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher emits row-outcome events to NATS JetStream. Publish failures are
// reported to the caller but are never allowed to fail row processing.
type Publisher struct {
	js      jetStreamPublisher
	logger  *zap.Logger
	subject string
	service string
}

// New creates a Publisher on the given NATS connection.
func New(nc *nats.Conn, logger *zap.Logger, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		js:      js,
		logger:  logger,
		subject: SubjectRowProcessed,
		service: service,
	}, nil
}

// PublishRow serializes and publishes a single row event.
func (p *Publisher) PublishRow(ctx context.Context, ev RowEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("publisher.marshal_failed",
			zap.String("batch_id", ev.BatchID),
			zap.Error(err))
		return err
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header: nats.Header{
			"event_type":   []string{"onboarding.row.processed"},
			"batch_id":     []string{ev.BatchID},
			"service":      []string{p.service},
			"content_type": []string{"application/json"},
		},
	}

	if _, err := p.js.PublishMsg(msg); err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("batch_id", ev.BatchID),
			zap.Int("row", ev.Row),
			zap.Error(err))
		metrics.NATSPublishErrors.WithLabelValues(p.subject).Inc()
		return err
	}
	return nil
}
