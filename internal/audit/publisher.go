package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"veritas/internal/platform/kafka"
	id "veritas/pkg/domain"
	"veritas/pkg/platform/circuit"
	"veritas/pkg/requestcontext"
)

// Store persists ledger entries. Append-only: there is deliberately no
// update or delete method on this interface.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTenant(ctx context.Context, tenantID id.TenantID, limit int) ([]Event, error)
}

// Publisher captures structured audit events. The store append participates
// in the caller's transaction; the Kafka stream is post-commit best-effort,
// so the Postgres ledger remains the record of truth.
type Publisher struct {
	store    Store
	producer *kafka.Producer
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// NewPublisher builds a publisher. producer may be nil when Kafka is not
// configured.
func NewPublisher(store Store, producer *kafka.Producer, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		store:    store,
		producer: producer,
		breaker:  circuit.New("audit-stream", circuit.WithFailureThreshold(5), circuit.WithSuccessThreshold(2)),
		logger:   logger,
	}
}

// Emit appends one ledger entry, filling identity and correlation fields
// from the request context when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx).UTC()
	}
	if event.CorrelationID == "" {
		event.CorrelationID = requestcontext.RequestID(ctx)
	}
	if event.ActorID.IsNil() {
		event.ActorID = requestcontext.ActorID(ctx)
	}
	return p.store.Append(ctx, event)
}

// Stream publishes the event to Kafka after the owning transaction has
// committed. Failures are logged, never surfaced: the ledger row exists.
// A breaker sheds publishes while the brokers are down so a Kafka outage
// never slows the request path.
func (p *Publisher) Stream(ctx context.Context, event Event) {
	if p.producer == nil {
		return
	}
	if p.breaker.IsOpen() {
		// Probe with one publish; a success starts closing the circuit.
		p.probe(ctx, event)
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode audit event for stream",
			"event_id", event.ID,
			"error", err,
		)
		return
	}
	p.publish(ctx, event, payload)
}

func (p *Publisher) probe(ctx context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	p.publish(ctx, event, payload)
}

func (p *Publisher) publish(ctx context.Context, event Event, payload []byte) {
	p.producer.Publish(ctx, event.TenantID.String(), payload, func(err error) {
		if err != nil {
			if _, change := p.breaker.RecordFailure(); change.Opened {
				p.logger.ErrorContext(ctx, "audit stream circuit opened", "breaker", p.breaker.Name())
			}
			p.logger.WarnContext(ctx, "audit stream publish failed",
				"event_id", event.ID,
				"error", err,
			)
			return
		}
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "audit stream circuit closed", "breaker", p.breaker.Name())
		}
	})
}

// List returns the newest events for one tenant.
func (p *Publisher) List(ctx context.Context, tenantID id.TenantID, limit int) ([]Event, error) {
	return p.store.ListByTenant(ctx, tenantID, limit)
}
