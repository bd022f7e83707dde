package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

func beginMockTx(t *testing.T) (pgxmock.PgxPoolIface, usecase.Transaction) {
	t.Helper()

	mockPool := newMockPool(t)
	mockPool.ExpectBegin()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	require.NoError(t, err)

	return mockPool, tx
}

func TestDepositRepository_TransitionStatusNotApplied(t *testing.T) {
	mockPool, tx := beginMockTx(t)

	mockPool.ExpectQuery("UPDATE deposits").
		WillReturnRows(mockPool.NewRows([]string{
			"id", "member_id", "amount", "proof_ref", "purpose", "bank_ref", "related_entity_id",
			"status", "verified_at", "verified_by", "created_at", "updated_at",
		}))

	repo := NewDepositRepository(nil)
	deposit, applied, err := repo.TransitionStatus(context.Background(), tx, "dep-1",
		domain.DepositStatusPending, domain.DepositStatusVerified, nil, time.Now())

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Nil(t, deposit)
	assertExpectations(t, mockPool)
}

func TestDepositRepository_DeleteUnverifiedPropagatesError(t *testing.T) {
	mockPool, tx := beginMockTx(t)
	boom := errors.New("connection reset")

	mockPool.ExpectQuery("DELETE FROM deposits").
		WithArgs("dep-1").
		WillReturnError(boom)

	_, applied, err := NewDepositRepository(nil).DeleteUnverified(context.Background(), tx, "dep-1")

	assert.ErrorIs(t, err, boom)
	assert.False(t, applied)
	assertExpectations(t, mockPool)
}

func TestCapitalRepository_CreateMapsUniqueViolation(t *testing.T) {
	mockPool, tx := beginMockTx(t)

	mockPool.ExpectQuery("INSERT INTO capitals").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: capitalMemberYearConstraint})

	err := NewCapitalRepository(nil).Create(context.Background(), tx, &domain.Capital{
		ID:       "cap-1",
		MemberID: "m1",
		Year:     2026,
		Amount:   decimal.NewFromInt(100),
		Status:   domain.CapitalStatusPending,
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateCapital)
	assertExpectations(t, mockPool)
}

func TestCapitalRepository_CreateIfAbsentReportsConflict(t *testing.T) {
	mockPool, tx := beginMockTx(t)

	mockPool.ExpectExec("ON CONFLICT").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectExec("ON CONFLICT").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewCapitalRepository(nil)
	capital := &domain.Capital{ID: "cap-1", MemberID: "m1", Year: 2026, Amount: decimal.NewFromInt(100), Status: domain.CapitalStatusPending}

	created, err := repo.CreateIfAbsent(context.Background(), tx, capital)
	require.NoError(t, err)
	assert.False(t, created)

	created, err = repo.CreateIfAbsent(context.Background(), tx, capital)
	require.NoError(t, err)
	assert.True(t, created)

	assertExpectations(t, mockPool)
}

func TestMemberRepository_CreateMapsDuplicateEmail(t *testing.T) {
	mockPool, tx := beginMockTx(t)

	mockPool.ExpectQuery("INSERT INTO members").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "idx_members_email"})

	err := NewMemberRepository(nil).Create(context.Background(), tx, &domain.Member{ID: "m1", Email: "a@example.com"})

	assert.ErrorIs(t, err, domain.ErrDuplicateMember)
	assertExpectations(t, mockPool)
}

func TestWalletRepository_CreditBalanceRejectsNonPositive(t *testing.T) {
	_, tx := beginMockTx(t)

	_, err := NewWalletRepository(nil).CreditBalance(context.Background(), tx, "m1", decimal.Zero, time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestAuditRepository_CreateTxFillsID(t *testing.T) {
	mockPool, tx := beginMockTx(t)

	mockPool.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	log := &domain.AuditLog{
		UserID:       "admin-1",
		Action:       string(domain.AuditActionDepositVerify),
		ResourceType: domain.ResourceTypeDeposit,
		ResourceID:   "dep-1",
		AfterState:   domain.JSON{"status": "VERIFIED"},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now(),
	}

	require.NoError(t, NewAuditRepository(nil).CreateTx(context.Background(), tx, log))
	assert.NotEmpty(t, log.ID)
	assertExpectations(t, mockPool)
}

func TestOutboxRepository_CreateFillsID(t *testing.T) {
	mockPool, tx := beginMockTx(t)

	mockPool.ExpectQuery("INSERT INTO outbox_events").
		WillReturnRows(mockPool.NewRows([]string{
			"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
		}).AddRow("evt-1", "dep-1", domain.AggregateTypeDeposit, domain.EventTypeDepositCreated, []byte(`{}`), nil, nil, false))

	event := &domain.OutboxEvent{
		AggregateID:   "dep-1",
		AggregateType: domain.AggregateTypeDeposit,
		EventType:     domain.EventTypeDepositCreated,
		Payload:       map[string]any{"deposit_id": "dep-1"},
		CreatedAt:     time.Now(),
	}

	require.NoError(t, NewOutboxRepository(nil).Create(context.Background(), tx, event))
	assert.NotEmpty(t, event.ID)
	assertExpectations(t, mockPool)
}
