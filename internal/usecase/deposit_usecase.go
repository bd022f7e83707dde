package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

// DepositUseCase manages the deposit lifecycle. It is the only caller of the
// wallet credit operation.
type DepositUseCase struct {
	txManager   TransactionManager
	depositRepo DepositRepository
	walletRepo  WalletRepository
	members     MemberDirectory
	recorder    recorder
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewDepositUseCase creates a new DepositUseCase.
func NewDepositUseCase(
	txManager TransactionManager,
	depositRepo DepositRepository,
	walletRepo WalletRepository,
	members MemberDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *DepositUseCase {
	return &DepositUseCase{
		txManager:   txManager,
		depositRepo: depositRepo,
		walletRepo:  walletRepo,
		members:     members,
		recorder:    recorder{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// CreateDepositInput represents input for submitting a deposit.
type CreateDepositInput struct {
	MemberID        string
	Amount          decimal.Decimal
	ProofRef        *string
	Purpose         *string
	BankRef         *string
	RelatedEntityID *string
}

// VerifyResult is the outcome of a successful verification.
type VerifyResult struct {
	Deposit       *domain.Deposit
	WalletBalance decimal.Decimal
}

// ListDepositsInput represents input for listing deposits.
type ListDepositsInput struct {
	MemberID *string
	Status   *string
	Page     int
	Limit    int
}

// Create records a new PENDING deposit. The wallet is not touched.
func (uc *DepositUseCase) Create(ctx context.Context, input CreateDepositInput) (*domain.Deposit, error) {
	now := time.Now().UTC()
	deposit := &domain.Deposit{
		ID:              uc.idGen.Generate(),
		MemberID:        input.MemberID,
		Amount:          input.Amount,
		ProofRef:        input.ProofRef,
		Purpose:         input.Purpose,
		BankRef:         input.BankRef,
		RelatedEntityID: input.RelatedEntityID,
		Status:          domain.DepositStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := deposit.Validate(); err != nil {
		return nil, err
	}

	exists, err := uc.members.MemberExists(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrMemberNotFound
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.depositRepo.Create(txCtx, tx, deposit); err != nil {
		return nil, err
	}

	if err := uc.recorder.emit(txCtx, tx, domain.AggregateTypeDeposit, deposit.ID, domain.EventTypeDepositCreated, domain.DepositCreatedEvent{
		DepositID: deposit.ID,
		MemberID:  deposit.MemberID,
		Amount:    deposit.Amount.String(),
		EventAt:   now.Format(time.RFC3339),
	}, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionDepositCreate, domain.ResourceTypeDeposit, deposit.ID, nil, deposit, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCreated.Inc()
		uc.metrics.DepositAmount.Observe(deposit.Amount.InexactFloat64())
	}

	return deposit, nil
}

// Verify moves a PENDING deposit to VERIFIED and credits the member's wallet in
// the same transaction. A second call fails with domain.ErrAlreadyVerified.
func (uc *DepositUseCase) Verify(ctx context.Context, depositID string) (*VerifyResult, error) {
	var result *VerifyResult
	err := retry(ctx, uc.retrier, func() error {
		var err error
		result, err = uc.verify(ctx, depositID)
		return err
	})
	if err != nil {
		uc.observeError("verify", err)
		return nil, err
	}

	return result, nil
}

func (uc *DepositUseCase) verify(ctx context.Context, depositID string) (*VerifyResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()
	actor := actorID(ctx)

	updated, applied, err := uc.depositRepo.TransitionStatus(txCtx, tx, depositID,
		domain.DepositStatusPending, domain.DepositStatusVerified, &actor, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := uc.depositRepo.GetByID(txCtx, depositID)
		if err != nil {
			return nil, err
		}
		if current.IsVerified() {
			return nil, domain.ErrAlreadyVerified
		}
		return nil, fmt.Errorf("%w: status is %s", domain.ErrDepositNotPending, current.Status)
	}

	balance, err := uc.credit(txCtx, tx, updated, now)
	if err != nil {
		return nil, err
	}

	before := *updated
	before.Status = domain.DepositStatusPending
	before.VerifiedAt, before.VerifiedBy = nil, nil
	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionDepositVerify, domain.ResourceTypeDeposit, updated.ID, &before, updated, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observeTransition(updated, domain.DepositStatusVerified)

	return &VerifyResult{Deposit: updated, WalletBalance: balance}, nil
}

// UpdateStatus applies an administrative status correction. Moving into
// VERIFIED credits the wallet exactly like Verify. A VERIFIED deposit is final.
func (uc *DepositUseCase) UpdateStatus(ctx context.Context, depositID string, status string) (*domain.Deposit, error) {
	target, err := domain.ParseDepositStatus(status)
	if err != nil {
		return nil, err
	}

	var result *domain.Deposit
	err = retry(ctx, uc.retrier, func() error {
		var err error
		result, err = uc.updateStatus(ctx, depositID, target)
		return err
	})
	if err != nil {
		uc.observeError("update_status", err)
		return nil, err
	}

	return result, nil
}

func (uc *DepositUseCase) updateStatus(ctx context.Context, depositID string, target domain.DepositStatus) (*domain.Deposit, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.depositRepo.GetByIDForUpdate(txCtx, tx, depositID)
	if err != nil {
		return nil, err
	}

	if err := current.CheckTransition(target); err != nil {
		return nil, err
	}
	if current.Status == target {
		return current, nil
	}

	now := time.Now().UTC()
	var actor *string
	if target == domain.DepositStatusVerified {
		a := actorID(ctx)
		actor = &a
	}

	updated, applied, err := uc.depositRepo.TransitionStatus(txCtx, tx, depositID, current.Status, target, actor, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, uc.lostTransition(txCtx, depositID, target)
	}

	if target == domain.DepositStatusVerified {
		if _, err := uc.credit(txCtx, tx, updated, now); err != nil {
			return nil, err
		}
	}

	if err := uc.recorder.emit(txCtx, tx, domain.AggregateTypeDeposit, updated.ID, domain.EventTypeDepositStatusChanged, domain.DepositStatusChangedEvent{
		DepositID: updated.ID,
		From:      string(current.Status),
		To:        string(target),
	}, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionDepositStatusUpdate, domain.ResourceTypeDeposit, updated.ID, current, updated, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.observeTransition(updated, target)

	return updated, nil
}

// Delete removes a deposit that has not credited the wallet.
func (uc *DepositUseCase) Delete(ctx context.Context, depositID string) (*domain.Deposit, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deleted, applied, err := uc.depositRepo.DeleteUnverified(txCtx, tx, depositID)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := uc.depositRepo.GetByID(txCtx, depositID)
		if err != nil {
			uc.observeError("delete", err)
			return nil, err
		}
		if err := current.CheckDeletable(); err != nil {
			uc.observeError("delete", err)
			return nil, err
		}
		return nil, domain.ErrDepositStatusChanged
	}

	now := time.Now().UTC()
	if err := uc.recorder.emit(txCtx, tx, domain.AggregateTypeDeposit, deleted.ID, domain.EventTypeDepositDeleted, domain.DepositDeletedEvent{
		DepositID: deleted.ID,
		MemberID:  deleted.MemberID,
		Status:    string(deleted.Status),
	}, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionDepositDelete, domain.ResourceTypeDeposit, deleted.ID, deleted, nil, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsDeleted.Inc()
	}

	return deleted, nil
}

// Get returns a deposit by ID.
func (uc *DepositUseCase) Get(ctx context.Context, depositID string) (*domain.Deposit, error) {
	return uc.depositRepo.GetByID(ctx, depositID)
}

// List returns deposits matching the input filters.
func (uc *DepositUseCase) List(ctx context.Context, input ListDepositsInput) ([]*domain.Deposit, error) {
	_, limit, offset := domain.NormalizePage(input.Page, input.Limit)

	filter := domain.DepositFilter{
		MemberID: input.MemberID,
		Limit:    limit,
		Offset:   offset,
	}
	if input.Status != nil {
		status, err := domain.ParseDepositStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	return uc.depositRepo.List(ctx, filter)
}

// credit applies the wallet side effect of a verified deposit and records the entry.
func (uc *DepositUseCase) credit(ctx context.Context, tx Transaction, deposit *domain.Deposit, now time.Time) (decimal.Decimal, error) {
	balance, err := uc.walletRepo.CreditBalance(ctx, tx, deposit.MemberID, deposit.Amount, now)
	if err != nil {
		return decimal.Zero, err
	}

	entry := &domain.WalletEntry{
		ID:              uc.idGen.Generate(),
		MemberID:        deposit.MemberID,
		DepositID:       deposit.ID,
		Amount:          deposit.Amount,
		PreviousBalance: balance.Sub(deposit.Amount),
		CurrentBalance:  balance,
		CreatedAt:       now,
	}
	if err := uc.walletRepo.CreateEntry(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}

	verifiedBy := ""
	if deposit.VerifiedBy != nil {
		verifiedBy = *deposit.VerifiedBy
	}
	if err := uc.recorder.emit(ctx, tx, domain.AggregateTypeDeposit, deposit.ID, domain.EventTypeDepositVerified, domain.DepositVerifiedEvent{
		DepositID:     deposit.ID,
		MemberID:      deposit.MemberID,
		Amount:        deposit.Amount.String(),
		WalletBalance: balance.String(),
		VerifiedBy:    verifiedBy,
	}, now); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// lostTransition explains why a conditional transition did not apply.
func (uc *DepositUseCase) lostTransition(ctx context.Context, depositID string, target domain.DepositStatus) error {
	latest, err := uc.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return err
	}
	if err := latest.CheckTransition(target); err != nil {
		return err
	}
	return domain.ErrDepositStatusChanged
}

func (uc *DepositUseCase) observeTransition(deposit *domain.Deposit, target domain.DepositStatus) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.DepositStatusChanges.WithLabelValues(string(target)).Inc()
	if target == domain.DepositStatusVerified {
		uc.metrics.DepositsVerified.Inc()
		uc.metrics.WalletCredits.Inc()
		uc.metrics.WalletCreditAmount.Add(deposit.Amount.InexactFloat64())
	}
}

func (uc *DepositUseCase) observeError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.DepositErrors.WithLabelValues(operation, string(domain.KindOf(err))).Inc()
}
