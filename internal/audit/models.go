// Package audit is the append-only, tamper-evident event ledger. Every state
// transition in the kernel appends exactly one event, inside the same
// transaction as the transition itself.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	id "veritas/pkg/domain"
)

// EventType names a recordable state transition.
type EventType string

const (
	EventDraftCreated        EventType = "evidence_draft_created"
	EventDraftUpdated        EventType = "evidence_draft_updated"
	EventAttachmentAdded     EventType = "evidence_attachment_added"
	EventEvidenceSealed      EventType = "evidence_sealed"
	EventEvidenceQuarantined EventType = "evidence_quarantined"
	EventReadinessEvaluated  EventType = "readiness_evaluated"
	EventTenantCreated       EventType = "tenant_created"
	EventTenantDeactivated   EventType = "tenant_deactivated"
	EventTenantReactivated   EventType = "tenant_reactivated"
	EventEntityRegistered    EventType = "subject_entity_registered"
)

// Event is one immutable ledger entry. Events are owned by the tenant that
// produced them and are never referenced across tenants.
//
// Invariant: never updated or deleted. The store exposes no mutation path
// and the backing table rejects UPDATE/DELETE structurally.
type Event struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      id.TenantID     `json:"tenant_id"`
	CorrelationID string          `json:"correlation_id"`
	Type          EventType       `json:"type"`
	ActorID       id.ActorID      `json:"actor_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Detail        json.RawMessage `json:"detail,omitempty"`
}
