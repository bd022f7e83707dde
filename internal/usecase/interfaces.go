package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
)

// MemberRepository defines data access for members.
type MemberRepository interface {
	MemberDirectory
	Create(ctx context.Context, tx Transaction, member *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error)
	SetActive(ctx context.Context, tx Transaction, id string, active bool, updatedAt time.Time) (*domain.Member, error)
}

// WalletRepository is the only write path to a member's wallet balance.
type WalletRepository interface {
	// CreditBalance atomically increases the balance by amount and returns the new balance.
	CreditBalance(ctx context.Context, tx Transaction, memberID string, amount decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	GetBalance(ctx context.Context, memberID string) (*domain.Wallet, error)
	CreateEntry(ctx context.Context, tx Transaction, entry *domain.WalletEntry) error
	ListEntries(ctx context.Context, memberID string, limit, offset int) ([]*domain.WalletEntry, error)
	// SumEntries returns the total credited to the member's wallet according to its entries.
	SumEntries(ctx context.Context, memberID string) (decimal.Decimal, error)
	// Totals returns the sum of all wallet balances and the sum of all wallet entries.
	Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

// DepositRepository defines data access for deposits.
type DepositRepository interface {
	Create(ctx context.Context, tx Transaction, deposit *domain.Deposit) error
	GetByID(ctx context.Context, id string) (*domain.Deposit, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Deposit, error)
	// TransitionStatus moves the deposit from one status to another only if it is
	// still in from. It reports whether the update applied.
	TransitionStatus(ctx context.Context, tx Transaction, id string, from, to domain.DepositStatus, actor *string, at time.Time) (*domain.Deposit, bool, error)
	// DeleteUnverified removes the deposit unless it is verified. It reports whether a row was removed.
	DeleteUnverified(ctx context.Context, tx Transaction, id string) (*domain.Deposit, bool, error)
	List(ctx context.Context, filter domain.DepositFilter) ([]*domain.Deposit, error)
}

// CapitalRepository defines data access for capital obligations.
type CapitalRepository interface {
	// Create inserts the capital and fails with domain.ErrDuplicateCapital when
	// one already exists for the member and year.
	Create(ctx context.Context, tx Transaction, capital *domain.Capital) error
	// CreateIfAbsent inserts the capital unless one exists for the member and year.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, tx Transaction, capital *domain.Capital) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.Capital, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Capital, error)
	GetByMemberYear(ctx context.Context, memberID string, year int) (*domain.Capital, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.CapitalStatus, paidAt *time.Time, updatedAt time.Time) (*domain.Capital, error)
	Delete(ctx context.Context, tx Transaction, id string) (*domain.Capital, error)
	List(ctx context.Context, filter domain.CapitalFilter) ([]*domain.Capital, error)
	Count(ctx context.Context, filter domain.CapitalFilter) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so that a failed request can be retried.
	Release(ctx context.Context, key string) error
}
