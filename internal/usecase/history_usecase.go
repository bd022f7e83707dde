package usecase

import (
	"context"
	"time"

	"github.com/iho/coopledger/internal/domain"
)

// HistoryUseCase reads back the audit trail and domain events recorded
// alongside every state change. Records of deleted resources stay readable.
type HistoryUseCase struct {
	auditRepo  AuditRepository
	outboxRepo OutboxRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(auditRepo AuditRepository, outboxRepo OutboxRepository) *HistoryUseCase {
	return &HistoryUseCase{
		auditRepo:  auditRepo,
		outboxRepo: outboxRepo,
	}
}

// ResourceHistory is everything recorded about one resource. Events only
// cover what the outbox still retains.
type ResourceHistory struct {
	ResourceType string
	ResourceID   string
	Audit        []*domain.AuditLog
	Events       []*domain.OutboxEvent
}

// ListAuditInput represents filters for the audit log listing.
type ListAuditInput struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Since        *time.Time
	Until        *time.Time
	Page         int
	Limit        int
}

// DepositHistory returns the audit trail and events of a deposit.
func (uc *HistoryUseCase) DepositHistory(ctx context.Context, depositID string) (*ResourceHistory, error) {
	return uc.history(ctx, domain.ResourceTypeDeposit, domain.AggregateTypeDeposit, depositID)
}

// CapitalHistory returns the audit trail and events of a capital.
func (uc *HistoryUseCase) CapitalHistory(ctx context.Context, capitalID string) (*ResourceHistory, error) {
	return uc.history(ctx, domain.ResourceTypeCapital, domain.AggregateTypeCapital, capitalID)
}

// MemberHistory returns the audit trail and events of a member.
func (uc *HistoryUseCase) MemberHistory(ctx context.Context, memberID string) (*ResourceHistory, error) {
	return uc.history(ctx, domain.ResourceTypeMember, domain.AggregateTypeMember, memberID)
}

func (uc *HistoryUseCase) history(ctx context.Context, resourceType, aggregateType, id string) (*ResourceHistory, error) {
	if id == "" {
		return nil, domain.NewError(domain.KindValidation, "resource id is required")
	}

	logs, err := uc.auditRepo.GetByResourceID(ctx, resourceType, id)
	if err != nil {
		return nil, err
	}

	events, err := uc.outboxRepo.GetByAggregate(ctx, aggregateType, id, domain.MaxPageSize, 0)
	if err != nil {
		return nil, err
	}

	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	if events == nil {
		events = []*domain.OutboxEvent{}
	}

	return &ResourceHistory{
		ResourceType: resourceType,
		ResourceID:   id,
		Audit:        logs,
		Events:       events,
	}, nil
}

// ListAudit returns one page of audit entries, newest first.
func (uc *HistoryUseCase) ListAudit(ctx context.Context, input ListAuditInput) ([]*domain.AuditLog, error) {
	if input.Since != nil && input.Until != nil && !input.Since.Before(*input.Until) {
		return nil, domain.NewError(domain.KindValidation, "since must be before until")
	}

	_, limit, offset := domain.NormalizePage(input.Page, input.Limit)

	return uc.auditRepo.List(ctx, domain.AuditFilter{
		UserID:       input.UserID,
		Action:       input.Action,
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		StartDate:    input.Since,
		EndDate:      input.Until,
		Limit:        limit,
		Offset:       offset,
	})
}
