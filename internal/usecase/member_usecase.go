package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

// MemberUseCase handles member directory operations.
type MemberUseCase struct {
	txManager  TransactionManager
	memberRepo MemberRepository
	hook       RegistrationHook
	recorder   recorder
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewMemberUseCase creates a new MemberUseCase. hook may be nil.
func NewMemberUseCase(
	txManager TransactionManager,
	memberRepo MemberRepository,
	hook RegistrationHook,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *MemberUseCase {
	return &MemberUseCase{
		txManager:  txManager,
		memberRepo: memberRepo,
		hook:       hook,
		recorder:   recorder{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		idGen:      idGen,
		metrics:    metrics,
	}
}

// RegisterMemberInput represents input for registering a member.
type RegisterMemberInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// RegisterResult is the outcome of a registration. The member stays registered
// when the hook fails; HookErr carries that failure.
type RegisterResult struct {
	Member  *domain.Member
	Capital *domain.Capital
	HookErr error
}

// ListMembersInput represents input for listing members.
type ListMembersInput struct {
	ActiveOnly bool
	Page       int
	Limit      int
}

// Register creates an active member with an empty wallet and runs the registration hook.
func (uc *MemberUseCase) Register(ctx context.Context, input RegisterMemberInput) (*RegisterResult, error) {
	if err := domain.ValidateMemberName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = domain.RoleMember
	}
	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := uc.memberRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateMember
	} else if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.Member{
		ID:            uc.idGen.Generate(),
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		Role:          input.Role,
		Active:        true,
		WalletBalance: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.memberRepo.Create(txCtx, tx, member); err != nil {
		return nil, err
	}

	if err := uc.recorder.emit(txCtx, tx, domain.AggregateTypeMember, member.ID, domain.EventTypeMemberRegistered, domain.MemberRegisteredEvent{
		MemberID: member.ID,
		Email:    member.Email,
		Role:     string(member.Role),
	}, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionMemberRegister, domain.ResourceTypeMember, member.ID, nil, member, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.MembersRegistered.Inc()
	}

	result := &RegisterResult{Member: member}
	if uc.hook != nil {
		result.Capital, result.HookErr = uc.hook.OnMemberRegistered(ctx, member)
	}

	return result, nil
}

// Get returns a member by ID.
func (uc *MemberUseCase) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	return uc.memberRepo.GetByID(ctx, memberID)
}

// List returns members, optionally only active ones.
func (uc *MemberUseCase) List(ctx context.Context, input ListMembersInput) ([]*domain.Member, error) {
	_, limit, offset := domain.NormalizePage(input.Page, input.Limit)

	return uc.memberRepo.List(ctx, domain.MemberFilter{
		ActiveOnly: input.ActiveOnly,
		Limit:      limit,
		Offset:     offset,
	})
}

// Deactivate removes a member from future bulk capital generation.
func (uc *MemberUseCase) Deactivate(ctx context.Context, memberID string) (*domain.Member, error) {
	before, err := uc.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !before.Active {
		return before, nil
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	member, err := uc.memberRepo.SetActive(txCtx, tx, memberID, false, now)
	if err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionMemberDeactivate, domain.ResourceTypeMember, member.ID, before, member, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return member, nil
}
