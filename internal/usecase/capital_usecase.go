package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
)

// Capital creation sources, used in events and metrics.
const (
	CapitalSourceBulk         = "bulk"
	CapitalSourceRegistration = "registration"
	CapitalSourceOnDemand     = "on_demand"
	CapitalSourceAdmin        = "admin"
)

// CapitalUseCase manages annual capital obligations.
type CapitalUseCase struct {
	txManager    TransactionManager
	capitalRepo  CapitalRepository
	members      MemberDirectory
	recorder     recorder
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
	annualAmount decimal.Decimal
	now          func() time.Time
}

// NewCapitalUseCase creates a new CapitalUseCase. annualAmount is used when a
// record has to be materialised without an explicit amount; zero means none is configured.
func NewCapitalUseCase(
	txManager TransactionManager,
	capitalRepo CapitalRepository,
	members MemberDirectory,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
	annualAmount decimal.Decimal,
) *CapitalUseCase {
	return &CapitalUseCase{
		txManager:    txManager,
		capitalRepo:  capitalRepo,
		members:      members,
		recorder:     recorder{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
		annualAmount: annualAmount,
		now:          time.Now,
	}
}

// WithClock overrides the clock used to derive the current year.
func (uc *CapitalUseCase) WithClock(now func() time.Time) *CapitalUseCase {
	uc.now = now
	return uc
}

// CurrentYear returns the calendar year of the use case clock in UTC.
func (uc *CapitalUseCase) CurrentYear() int {
	return uc.now().UTC().Year()
}

// CreateCapitalInput represents input for explicit administrative creation.
type CreateCapitalInput struct {
	MemberID string
	Year     int
	Amount   decimal.Decimal
}

// GenerateAnnualInput represents input for bulk generation. Year 0 means the current year.
type GenerateAnnualInput struct {
	Year            int
	AmountPerMember decimal.Decimal
}

// ListCapitalsInput represents input for the administrative listing.
type ListCapitalsInput struct {
	Year     *int
	MemberID *string
	Status   *string
	Page     int
	Limit    int
}

// EnsureForMemberYear returns the member's capital for year, creating it with
// amount when absent. Concurrent callers all receive the same record.
func (uc *CapitalUseCase) EnsureForMemberYear(ctx context.Context, memberID string, year int, amount decimal.Decimal) (*domain.Capital, error) {
	capital, _, err := uc.ensure(ctx, memberID, year, amount, CapitalSourceOnDemand)
	return capital, err
}

// EnsureCurrentYearForMember materialises the member's current-year capital
// using the configured annual amount.
func (uc *CapitalUseCase) EnsureCurrentYearForMember(ctx context.Context, memberID string) (*domain.Capital, error) {
	capital, _, err := uc.ensureWithDefault(ctx, memberID, uc.CurrentYear(), CapitalSourceOnDemand)
	return capital, err
}

// EnsureCapitalOnRegistration gives a newly registered member their current-year obligation.
func (uc *CapitalUseCase) EnsureCapitalOnRegistration(ctx context.Context, memberID string) (*domain.Capital, error) {
	capital, _, err := uc.ensureWithDefault(ctx, memberID, uc.CurrentYear(), CapitalSourceRegistration)
	return capital, err
}

func (uc *CapitalUseCase) ensureWithDefault(ctx context.Context, memberID string, year int, source string) (*domain.Capital, bool, error) {
	existing, err := uc.capitalRepo.GetByMemberYear(ctx, memberID, year)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrCapitalNotFound) {
		return nil, false, err
	}

	if uc.annualAmount.LessThanOrEqual(decimal.Zero) {
		return nil, false, domain.ErrCapitalAmountNotConfigured
	}

	return uc.ensure(ctx, memberID, year, uc.annualAmount, source)
}

// ensure is the race-safe get-or-create. The insert is conditional on the
// (member, year) key; a caller that loses the race re-reads the winner.
func (uc *CapitalUseCase) ensure(ctx context.Context, memberID string, year int, amount decimal.Decimal, source string) (*domain.Capital, bool, error) {
	now := uc.now().UTC()
	candidate := &domain.Capital{
		ID:        uc.idGen.Generate(),
		MemberID:  memberID,
		Year:      year,
		Amount:    amount,
		Status:    domain.CapitalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := candidate.Validate(); err != nil {
		return nil, false, err
	}

	exists, err := uc.members.MemberExists(ctx, memberID)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, domain.ErrMemberNotFound
	}

	var created bool
	err = retry(ctx, uc.retrier, func() error {
		var err error
		created, err = uc.insertIfAbsent(ctx, candidate, source)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		if uc.metrics != nil {
			uc.metrics.CapitalsCreated.WithLabelValues(source).Inc()
		}
		return candidate, true, nil
	}

	winner, err := uc.capitalRepo.GetByMemberYear(ctx, memberID, year)
	if err != nil {
		return nil, false, err
	}

	return winner, false, nil
}

func (uc *CapitalUseCase) insertIfAbsent(ctx context.Context, capital *domain.Capital, source string) (bool, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	created, err := uc.capitalRepo.CreateIfAbsent(txCtx, tx, capital)
	if err != nil || !created {
		return false, err
	}

	if err := uc.recordCreated(txCtx, tx, capital, source); err != nil {
		return false, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return false, err
	}

	return true, nil
}

// EnsureAnnualForAllMembers ensures every active member has a capital for the
// year. It is safe to re-run: existing records are reported as skipped.
func (uc *CapitalUseCase) EnsureAnnualForAllMembers(ctx context.Context, input GenerateAnnualInput) (*domain.CapitalGenerationReport, error) {
	year := input.Year
	if year == 0 {
		year = uc.CurrentYear()
	}
	if err := domain.ValidateYear(year); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.AmountPerMember); err != nil {
		return nil, fmt.Errorf("amount per member: %w", err)
	}

	start := time.Now()
	defer func() {
		if uc.metrics != nil {
			uc.metrics.CapitalGeneration.Observe(time.Since(start).Seconds())
		}
	}()

	memberIDs, err := uc.members.ListActiveMembers(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.CapitalGenerationReport{
		Year:    year,
		Amount:  input.AmountPerMember,
		Created: make([]string, 0, len(memberIDs)),
		Skipped: make([]string, 0),
	}

	for _, memberID := range memberIDs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		_, created, err := uc.ensure(ctx, memberID, year, input.AmountPerMember, CapitalSourceBulk)
		if err != nil {
			return report, fmt.Errorf("ensure capital for member %s: %w", memberID, err)
		}

		if created {
			report.Created = append(report.Created, memberID)
		} else {
			report.Skipped = append(report.Skipped, memberID)
			if uc.metrics != nil {
				uc.metrics.CapitalsSkipped.Inc()
			}
		}
	}

	return report, nil
}

// GetForMemberYear returns the member's capital for year, or nil when absent.
func (uc *CapitalUseCase) GetForMemberYear(ctx context.Context, memberID string, year int) (*domain.Capital, error) {
	if err := domain.ValidateYear(year); err != nil {
		return nil, err
	}

	capital, err := uc.capitalRepo.GetByMemberYear(ctx, memberID, year)
	if errors.Is(err, domain.ErrCapitalNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return capital, nil
}

// GetCurrentYearForMember returns the member's current-year capital, or nil when absent.
func (uc *CapitalUseCase) GetCurrentYearForMember(ctx context.Context, memberID string) (*domain.Capital, error) {
	return uc.GetForMemberYear(ctx, memberID, uc.CurrentYear())
}

// IsCurrentYearPaid reports whether the member's current-year capital exists and is PAID.
func (uc *CapitalUseCase) IsCurrentYearPaid(ctx context.Context, memberID string) (*domain.PaidCheck, error) {
	capital, err := uc.GetCurrentYearForMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	return &domain.PaidCheck{
		Paid:    capital != nil && capital.IsPaid(),
		Capital: capital,
	}, nil
}

// Get returns a capital by ID.
func (uc *CapitalUseCase) Get(ctx context.Context, capitalID string) (*domain.Capital, error) {
	return uc.capitalRepo.GetByID(ctx, capitalID)
}

// Create explicitly creates a capital. It fails with domain.ErrDuplicateCapital
// when the member already has one for the year.
func (uc *CapitalUseCase) Create(ctx context.Context, input CreateCapitalInput) (*domain.Capital, error) {
	now := uc.now().UTC()
	capital := &domain.Capital{
		ID:        uc.idGen.Generate(),
		MemberID:  input.MemberID,
		Year:      input.Year,
		Amount:    input.Amount,
		Status:    domain.CapitalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := capital.Validate(); err != nil {
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

	if err := uc.capitalRepo.Create(txCtx, tx, capital); err != nil {
		return nil, err
	}

	if err := uc.recordCreated(txCtx, tx, capital, CapitalSourceAdmin); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CapitalsCreated.WithLabelValues(CapitalSourceAdmin).Inc()
	}

	return capital, nil
}

// UpdateStatus moves a capital between PENDING and PAID.
func (uc *CapitalUseCase) UpdateStatus(ctx context.Context, capitalID string, status string) (*domain.Capital, error) {
	target, err := domain.ParseCapitalStatus(status)
	if err != nil {
		return nil, err
	}

	return uc.setStatus(ctx, capitalID, target)
}

// MarkPaid moves a capital to PAID.
func (uc *CapitalUseCase) MarkPaid(ctx context.Context, capitalID string) (*domain.Capital, error) {
	return uc.setStatus(ctx, capitalID, domain.CapitalStatusPaid)
}

func (uc *CapitalUseCase) setStatus(ctx context.Context, capitalID string, target domain.CapitalStatus) (*domain.Capital, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.capitalRepo.GetByIDForUpdate(txCtx, tx, capitalID)
	if err != nil {
		return nil, err
	}
	if current.Status == target {
		return current, nil
	}

	now := uc.now().UTC()
	var paidAt *time.Time
	if target == domain.CapitalStatusPaid {
		paidAt = &now
	}

	updated, err := uc.capitalRepo.UpdateStatus(txCtx, tx, capitalID, target, paidAt, now)
	if err != nil {
		return nil, err
	}

	if err := uc.recorder.emit(txCtx, tx, domain.AggregateTypeCapital, updated.ID, domain.EventTypeCapitalStatusChanged, domain.CapitalStatusChangedEvent{
		CapitalID: updated.ID,
		MemberID:  updated.MemberID,
		Year:      updated.Year,
		From:      string(current.Status),
		To:        string(target),
	}, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionCapitalStatusUpdate, domain.ResourceTypeCapital, updated.ID, current, updated, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CapitalStatusChanges.WithLabelValues(string(target)).Inc()
	}

	return updated, nil
}

// Delete removes a capital and returns the removed record.
func (uc *CapitalUseCase) Delete(ctx context.Context, capitalID string) (*domain.Capital, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deleted, err := uc.capitalRepo.Delete(txCtx, tx, capitalID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	if err := uc.recorder.emit(txCtx, tx, domain.AggregateTypeCapital, deleted.ID, domain.EventTypeCapitalDeleted, domain.CapitalDeletedEvent{
		CapitalID: deleted.ID,
		MemberID:  deleted.MemberID,
		Year:      deleted.Year,
		Status:    string(deleted.Status),
	}, now); err != nil {
		return nil, err
	}

	if err := uc.recorder.audit(txCtx, tx, domain.AuditActionCapitalDelete, domain.ResourceTypeCapital, deleted.ID, deleted, nil, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CapitalsDeleted.Inc()
	}

	return deleted, nil
}

// ListAll returns one page of capitals matching the filters.
func (uc *CapitalUseCase) ListAll(ctx context.Context, input ListCapitalsInput) (*domain.CapitalPage, error) {
	page, limit, offset := domain.NormalizePage(input.Page, input.Limit)

	filter := domain.CapitalFilter{
		Year:     input.Year,
		MemberID: input.MemberID,
		Limit:    limit,
		Offset:   offset,
	}
	if input.Year != nil {
		if err := domain.ValidateYear(*input.Year); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		status, err := domain.ParseCapitalStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}

	items, err := uc.capitalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := uc.capitalRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.CapitalPage{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (uc *CapitalUseCase) recordCreated(ctx context.Context, tx Transaction, capital *domain.Capital, source string) error {
	if err := uc.recorder.emit(ctx, tx, domain.AggregateTypeCapital, capital.ID, domain.EventTypeCapitalCreated, domain.CapitalCreatedEvent{
		CapitalID: capital.ID,
		MemberID:  capital.MemberID,
		Year:      capital.Year,
		Amount:    capital.Amount.String(),
		Source:    source,
	}, capital.CreatedAt); err != nil {
		return err
	}

	return uc.recorder.audit(ctx, tx, domain.AuditActionCapitalCreate, domain.ResourceTypeCapital, capital.ID, nil, capital, capital.CreatedAt)
}
