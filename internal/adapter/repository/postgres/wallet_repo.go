package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/infrastructure/postgres/generated"
	"github.com/iho/coopledger/internal/usecase"
)

// WalletRepository implements usecase.WalletRepository on top of the
// members.wallet_balance column and the wallet_entries table.
type WalletRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// CreditBalance adds amount to the member's balance in a single UPDATE so that
// concurrent credits never lose an increment.
func (r *WalletRepository) CreditBalance(ctx context.Context, tx usecase.Transaction, memberID string, amount decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	balance, err := queries.CreditMemberBalance(ctx, generated.CreditMemberBalanceParams{
		Amount:    decimalToNumeric(amount),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
		ID:        memberID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrMemberNotFound
		}

		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// GetBalance returns the member's current wallet balance.
func (r *WalletRepository) GetBalance(ctx context.Context, memberID string) (*domain.Wallet, error) {
	row, err := r.queries.GetMemberBalance(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	return &domain.Wallet{
		MemberID:  row.ID,
		Balance:   numericToDecimal(row.WalletBalance),
		UpdatedAt: row.UpdatedAt.Time,
	}, nil
}

// CreateEntry records a wallet credit.
func (r *WalletRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.WalletEntry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.CreateWalletEntry(ctx, generated.CreateWalletEntryParams{
		ID:              entry.ID,
		MemberID:        entry.MemberID,
		DepositID:       entry.DepositID,
		Amount:          decimalToNumeric(entry.Amount),
		PreviousBalance: decimalToNumeric(entry.PreviousBalance),
		CurrentBalance:  decimalToNumeric(entry.CurrentBalance),
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})
}

// ListEntries lists a member's wallet entries, newest first.
func (r *WalletRepository) ListEntries(ctx context.Context, memberID string, limit, offset int) ([]*domain.WalletEntry, error) {
	rows, err := r.queries.ListWalletEntriesByMember(ctx, generated.ListWalletEntriesByMemberParams{
		MemberID: memberID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.WalletEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToWalletEntry(row))
	}

	return entries, nil
}

// SumEntries returns the total credited to the member according to its entries.
func (r *WalletRepository) SumEntries(ctx context.Context, memberID string) (decimal.Decimal, error) {
	total, err := r.queries.SumWalletEntriesByMember(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// Totals returns the sum of all balances and the sum of all entries.
func (r *WalletRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.WalletTotals(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.TotalBalance), numericToDecimal(row.TotalCredited), nil
}

func rowToWalletEntry(row generated.WalletEntry) *domain.WalletEntry {
	return &domain.WalletEntry{
		ID:              row.ID,
		MemberID:        row.MemberID,
		DepositID:       row.DepositID,
		Amount:          numericToDecimal(row.Amount),
		PreviousBalance: numericToDecimal(row.PreviousBalance),
		CurrentBalance:  numericToDecimal(row.CurrentBalance),
		CreatedAt:       row.CreatedAt.Time,
	}
}
