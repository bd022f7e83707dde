package usecase

import (
	"context"
	"time"

	"github.com/iho/coopledger/internal/domain"
)

// recorder writes the outbox event and audit row that accompany a state change,
// inside the caller's transaction.
type recorder struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

func (r recorder) emit(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload any, now time.Time) error {
	if r.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            r.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       domain.MarshalState(payload),
		CreatedAt:     now,
		Published:     false,
	}

	return r.outboxRepo.Create(ctx, tx, event)
}

func (r recorder) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceType, resourceID string, before, after any, now time.Time) error {
	if r.auditRepo == nil {
		return nil
	}

	meta := domain.RequestMetadataFromContext(ctx)
	log := &domain.AuditLog{
		UserID:       actorID(ctx),
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}
	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}

	return r.auditRepo.CreateTx(ctx, tx, log)
}

func actorID(ctx context.Context) string {
	if user, ok := domain.UserFromContext(ctx); ok {
		return user.ID
	}
	return systemActor
}

// retry runs operation through retrier when one is configured.
func retry(ctx context.Context, retrier Retrier, operation func() error) error {
	if retrier == nil {
		return operation()
	}
	return retrier.Retry(ctx, operation)
}
