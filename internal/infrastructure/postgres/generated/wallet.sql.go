package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createWalletEntry = `-- name: CreateWalletEntry :exec
INSERT INTO wallet_entries (id, member_id, deposit_id, amount, previous_balance, current_balance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

type CreateWalletEntryParams struct {
	ID              string             `json:"id"`
	MemberID        string             `json:"member_id"`
	DepositID       string             `json:"deposit_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	PreviousBalance pgtype.Numeric     `json:"previous_balance"`
	CurrentBalance  pgtype.Numeric     `json:"current_balance"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateWalletEntry(ctx context.Context, arg CreateWalletEntryParams) error {
	_, err := q.db.Exec(ctx, createWalletEntry,
		arg.ID,
		arg.MemberID,
		arg.DepositID,
		arg.Amount,
		arg.PreviousBalance,
		arg.CurrentBalance,
		arg.CreatedAt,
	)
	return err
}

const listWalletEntriesByMember = `-- name: ListWalletEntriesByMember :many
SELECT id, member_id, deposit_id, amount, previous_balance, current_balance, created_at FROM wallet_entries
WHERE member_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListWalletEntriesByMemberParams struct {
	MemberID string `json:"member_id"`
	Limit    int32  `json:"limit"`
	Offset   int32  `json:"offset"`
}

func (q *Queries) ListWalletEntriesByMember(ctx context.Context, arg ListWalletEntriesByMemberParams) ([]WalletEntry, error) {
	rows, err := q.db.Query(ctx, listWalletEntriesByMember, arg.MemberID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []WalletEntry{}
	for rows.Next() {
		var i WalletEntry
		if err := rows.Scan(
			&i.ID,
			&i.MemberID,
			&i.DepositID,
			&i.Amount,
			&i.PreviousBalance,
			&i.CurrentBalance,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumWalletEntriesByMember = `-- name: SumWalletEntriesByMember :one
SELECT COALESCE(SUM(amount), 0)::NUMERIC AS total FROM wallet_entries WHERE member_id = $1
`

func (q *Queries) SumWalletEntriesByMember(ctx context.Context, memberID string) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumWalletEntriesByMember, memberID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

const walletTotals = `-- name: WalletTotals :one
SELECT
    (SELECT COALESCE(SUM(wallet_balance), 0) FROM members)::NUMERIC AS total_balance,
    (SELECT COALESCE(SUM(amount), 0) FROM wallet_entries)::NUMERIC AS total_credited
`

type WalletTotalsRow struct {
	TotalBalance  pgtype.Numeric `json:"total_balance"`
	TotalCredited pgtype.Numeric `json:"total_credited"`
}

func (q *Queries) WalletTotals(ctx context.Context) (WalletTotalsRow, error) {
	row := q.db.QueryRow(ctx, walletTotals)
	var i WalletTotalsRow
	err := row.Scan(&i.TotalBalance, &i.TotalCredited)
	return i, err
}
