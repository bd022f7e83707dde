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

const capitalMemberYearConstraint = "capitals_member_year_key"

// CapitalRepository implements usecase.CapitalRepository.
type CapitalRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewCapitalRepository creates a new CapitalRepository.
func NewCapitalRepository(pool *pgxpool.Pool) *CapitalRepository {
	return &CapitalRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a capital. A second capital for the same member and year
// fails with domain.ErrDuplicateCapital.
func (r *CapitalRepository) Create(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateCapital(ctx, generated.CreateCapitalParams(capitalParams(capital)))
	if isUniqueViolation(err, capitalMemberYearConstraint) {
		return domain.ErrDuplicateCapital
	}

	return err
}

// CreateIfAbsent inserts a capital unless one already exists for the member and year.
func (r *CapitalRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	n, err := queries.CreateCapitalIfAbsent(ctx, capitalParams(capital))
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

// GetByID retrieves a capital by ID.
func (r *CapitalRepository) GetByID(ctx context.Context, id string) (*domain.Capital, error) {
	row, err := r.queries.GetCapitalByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCapitalNotFound
		}

		return nil, err
	}

	return rowToCapital(row), nil
}

// GetByIDForUpdate retrieves a capital by ID with a FOR UPDATE lock.
func (r *CapitalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Capital, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetCapitalByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCapitalNotFound
		}

		return nil, err
	}

	return rowToCapital(row), nil
}

// GetByMemberYear retrieves the capital of one member for one year.
func (r *CapitalRepository) GetByMemberYear(ctx context.Context, memberID string, year int) (*domain.Capital, error) {
	row, err := r.queries.GetCapitalByMemberYear(ctx, generated.GetCapitalByMemberYearParams{
		MemberID: memberID,
		Year:     int32(year),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCapitalNotFound
		}

		return nil, err
	}

	return rowToCapital(row), nil
}

// UpdateStatus sets the status and payment timestamp of a capital.
func (r *CapitalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.CapitalStatus, paidAt *time.Time, updatedAt time.Time) (*domain.Capital, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.UpdateCapitalStatus(ctx, generated.UpdateCapitalStatusParams{
		ID:        id,
		Status:    string(status),
		PaidAt:    timePtrToPgTimestamptz(paidAt),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCapitalNotFound
		}

		return nil, err
	}

	return rowToCapital(row), nil
}

// Delete removes a capital and returns the removed row.
func (r *CapitalRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) (*domain.Capital, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.DeleteCapital(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCapitalNotFound
		}

		return nil, err
	}

	return rowToCapital(row), nil
}

// List lists capitals matching the filter, newest year first.
func (r *CapitalRepository) List(ctx context.Context, filter domain.CapitalFilter) ([]*domain.Capital, error) {
	year, memberID, status := capitalFilterArgs(filter)

	rows, err := r.queries.ListCapitals(ctx, generated.ListCapitalsParams{
		Year:      year,
		MemberID:  memberID,
		Status:    status,
		RowLimit:  int32(filter.Limit),
		RowOffset: int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	capitals := make([]*domain.Capital, 0, len(rows))
	for _, row := range rows {
		capitals = append(capitals, rowToCapital(row))
	}

	return capitals, nil
}

// Count counts capitals matching the filter, ignoring pagination.
func (r *CapitalRepository) Count(ctx context.Context, filter domain.CapitalFilter) (int64, error) {
	year, memberID, status := capitalFilterArgs(filter)

	return r.queries.CountCapitals(ctx, generated.CountCapitalsParams{
		Year:     year,
		MemberID: memberID,
		Status:   status,
	})
}

func capitalParams(capital *domain.Capital) generated.CreateCapitalIfAbsentParams {
	return generated.CreateCapitalIfAbsentParams{
		ID:        capital.ID,
		MemberID:  capital.MemberID,
		Year:      int32(capital.Year),
		Amount:    decimalToNumeric(capital.Amount),
		Status:    string(capital.Status),
		PaidAt:    timePtrToPgTimestamptz(capital.PaidAt),
		CreatedAt: timeToPgTimestamptz(capital.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(capital.UpdatedAt),
	}
}

func capitalFilterArgs(filter domain.CapitalFilter) (*int32, *string, *string) {
	var year *int32
	if filter.Year != nil {
		y := int32(*filter.Year)
		year = &y
	}

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	return year, filter.MemberID, status
}

func rowToCapital(row generated.Capital) *domain.Capital {
	return &domain.Capital{
		ID:        row.ID,
		MemberID:  row.MemberID,
		Year:      int(row.Year),
		Amount:    numericToDecimal(row.Amount),
		Status:    domain.CapitalStatus(row.Status),
		PaidAt:    pgTimestamptzToTimePtr(row.PaidAt),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
