package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/payloadregistry"
	"github.com/nats-io/nats.go"
)

// GraphIngestSubject is the NATS subject entity payloads are published to.
const GraphIngestSubject = "graph.ingest.entity"

// flushTimeout bounds the server round trip when ctx has no deadline.
const flushTimeout = 5 * time.Second

// Publisher is a Sink that publishes each subject's triples as an
// EntityPayload over NATS.
type Publisher struct {
	nc       *nats.Conn
	subject  string
	logger   *slog.Logger
	payloads *payloadregistry.Registry
}

// NewPublisher wraps an established connection. A nil connection yields a
// publisher that skips every write.
func NewPublisher(nc *nats.Conn, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = GraphIngestSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	payloads := payloadregistry.New()
	if err := RegisterPayloads(payloads); err != nil {
		logger.Warn("Entity payload not registered", slog.String("error", err.Error()))
	}
	return &Publisher{nc: nc, subject: subject, logger: logger, payloads: payloads}
}

// Decode reads a published message back into an EntityPayload through the
// payload registry.
func (p *Publisher) Decode(data []byte) (*EntityPayload, error) {
	t := EntityMessageType
	payload, ok := p.payloads.Create(t.Domain, t.Category, t.Version).(*EntityPayload)
	if !ok {
		return nil, fmt.Errorf("no payload registered for %s", t)
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t, err)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// Connect dials url and returns a publisher owning the connection.
func Connect(url, subject string, logger *slog.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("codeontology"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	return NewPublisher(nc, subject, logger), nil
}

// Write implements Sink.
func (p *Publisher) Write(ctx context.Context, triples []message.Triple) error {
	if p.nc == nil {
		return nil // Skip publishing if no NATS connection
	}

	payloads := GroupBySubject(triples, time.Now())
	for _, payload := range payloads {
		if err := payload.Validate(); err != nil {
			return err
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal entity %s: %w", payload.Subject, err)
		}
		if err := p.nc.Publish(p.subject, data); err != nil {
			return fmt.Errorf("publish entity %s: %w", payload.Subject, err)
		}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush NATS connection: %w", err)
	}
	p.logger.Debug("Published entities",
		slog.String("subject", p.subject),
		slog.Int("entities", len(payloads)))
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
