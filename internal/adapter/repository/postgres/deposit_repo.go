package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/postgres/generated"
	"github.com/iho/coopledger/internal/usecase"
)

// DepositRepository implements usecase.DepositRepository.
type DepositRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewDepositRepository creates a new DepositRepository.
func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a new deposit.
func (r *DepositRepository) Create(ctx context.Context, tx usecase.Transaction, deposit *domain.Deposit) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateDeposit(ctx, generated.CreateDepositParams{
		ID:              deposit.ID,
		MemberID:        deposit.MemberID,
		Amount:          decimalToNumeric(deposit.Amount),
		ProofRef:        deposit.ProofRef,
		Purpose:         deposit.Purpose,
		BankRef:         deposit.BankRef,
		RelatedEntityID: deposit.RelatedEntityID,
		Status:          string(deposit.Status),
		CreatedAt:       timeToPgTimestamptz(deposit.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(deposit.UpdatedAt),
	})

	return err
}

// GetByID retrieves a deposit by ID.
func (r *DepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	row, err := r.queries.GetDepositByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDepositNotFound
		}

		return nil, err
	}

	return rowToDeposit(row), nil
}

// GetByIDForUpdate retrieves a deposit by ID with a FOR UPDATE lock.
func (r *DepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetDepositByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDepositNotFound
		}

		return nil, err
	}

	return rowToDeposit(row), nil
}

// TransitionStatus moves the deposit from one status to another with a
// conditional UPDATE. When the row is no longer in from, nothing is written
// and applied is false.
func (r *DepositRepository) TransitionStatus(ctx context.Context, tx usecase.Transaction, id string, from, to domain.DepositStatus, actor *string, at time.Time) (*domain.Deposit, bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	params := generated.TransitionDepositStatusParams{
		ToStatus:   string(to),
		UpdatedAt:  timeToPgTimestamptz(at),
		ID:         id,
		FromStatus: string(from),
	}
	if to == domain.DepositStatusVerified {
		params.VerifiedAt = timeToPgTimestamptz(at)
		params.VerifiedBy = actor
	}

	row, err := queries.TransitionDepositStatus(ctx, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return rowToDeposit(row), true, nil
}

// DeleteUnverified removes the deposit unless it has been verified.
func (r *DepositRepository) DeleteUnverified(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.DeleteUnverifiedDeposit(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return rowToDeposit(row), true, nil
}

// List lists deposits, newest first.
func (r *DepositRepository) List(ctx context.Context, filter domain.DepositFilter) ([]*domain.Deposit, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.queries.ListDeposits(ctx, generated.ListDepositsParams{
		MemberID:  filter.MemberID,
		Status:    status,
		RowLimit:  int32(filter.Limit),
		RowOffset: int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	deposits := make([]*domain.Deposit, 0, len(rows))
	for _, row := range rows {
		deposits = append(deposits, rowToDeposit(row))
	}

	return deposits, nil
}

func rowToDeposit(row generated.Deposit) *domain.Deposit {
	return &domain.Deposit{
		ID:              row.ID,
		MemberID:        row.MemberID,
		Amount:          numericToDecimal(row.Amount),
		ProofRef:        row.ProofRef,
		Purpose:         row.Purpose,
		BankRef:         row.BankRef,
		RelatedEntityID: row.RelatedEntityID,
		Status:          domain.DepositStatus(row.Status),
		VerifiedAt:      pgTimestamptzToTimePtr(row.VerifiedAt),
		VerifiedBy:      row.VerifiedBy,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
