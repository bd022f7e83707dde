package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createDeposit = `-- name: CreateDeposit :one
INSERT INTO deposits (id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, verified_at, verified_by, created_at, updated_at
`

type CreateDepositParams struct {
	ID              string             `json:"id"`
	MemberID        string             `json:"member_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	ProofRef        *string            `json:"proof_ref"`
	Purpose         *string            `json:"purpose"`
	BankRef         *string            `json:"bank_ref"`
	RelatedEntityID *string            `json:"related_entity_id"`
	Status          string             `json:"status"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateDeposit(ctx context.Context, arg CreateDepositParams) (Deposit, error) {
	row := q.db.QueryRow(ctx, createDeposit,
		arg.ID,
		arg.MemberID,
		arg.Amount,
		arg.ProofRef,
		arg.Purpose,
		arg.BankRef,
		arg.RelatedEntityID,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Deposit
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Amount,
		&i.ProofRef,
		&i.Purpose,
		&i.BankRef,
		&i.RelatedEntityID,
		&i.Status,
		&i.VerifiedAt,
		&i.VerifiedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteUnverifiedDeposit = `-- name: DeleteUnverifiedDeposit :one
DELETE FROM deposits
WHERE id = $1 AND status <> 'VERIFIED'
RETURNING id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, verified_at, verified_by, created_at, updated_at
`

func (q *Queries) DeleteUnverifiedDeposit(ctx context.Context, id string) (Deposit, error) {
	row := q.db.QueryRow(ctx, deleteUnverifiedDeposit, id)
	var i Deposit
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Amount,
		&i.ProofRef,
		&i.Purpose,
		&i.BankRef,
		&i.RelatedEntityID,
		&i.Status,
		&i.VerifiedAt,
		&i.VerifiedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDepositByID = `-- name: GetDepositByID :one
SELECT id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, verified_at, verified_by, created_at, updated_at FROM deposits WHERE id = $1
`

func (q *Queries) GetDepositByID(ctx context.Context, id string) (Deposit, error) {
	row := q.db.QueryRow(ctx, getDepositByID, id)
	var i Deposit
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Amount,
		&i.ProofRef,
		&i.Purpose,
		&i.BankRef,
		&i.RelatedEntityID,
		&i.Status,
		&i.VerifiedAt,
		&i.VerifiedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDepositByIDForUpdate = `-- name: GetDepositByIDForUpdate :one
SELECT id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, verified_at, verified_by, created_at, updated_at FROM deposits WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetDepositByIDForUpdate(ctx context.Context, id string) (Deposit, error) {
	row := q.db.QueryRow(ctx, getDepositByIDForUpdate, id)
	var i Deposit
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Amount,
		&i.ProofRef,
		&i.Purpose,
		&i.BankRef,
		&i.RelatedEntityID,
		&i.Status,
		&i.VerifiedAt,
		&i.VerifiedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDeposits = `-- name: ListDeposits :many
SELECT id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, verified_at, verified_by, created_at, updated_at FROM deposits
WHERE ($1::text IS NULL OR member_id = $1)
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4
`

type ListDepositsParams struct {
	MemberID  *string `json:"member_id"`
	Status    *string `json:"status"`
	RowLimit  int32   `json:"row_limit"`
	RowOffset int32   `json:"row_offset"`
}

func (q *Queries) ListDeposits(ctx context.Context, arg ListDepositsParams) ([]Deposit, error) {
	rows, err := q.db.Query(ctx, listDeposits,
		arg.MemberID,
		arg.Status,
		arg.RowLimit,
		arg.RowOffset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Deposit{}
	for rows.Next() {
		var i Deposit
		if err := rows.Scan(
			&i.ID,
			&i.MemberID,
			&i.Amount,
			&i.ProofRef,
			&i.Purpose,
			&i.BankRef,
			&i.RelatedEntityID,
			&i.Status,
			&i.VerifiedAt,
			&i.VerifiedBy,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const transitionDepositStatus = `-- name: TransitionDepositStatus :one
UPDATE deposits
SET status = $1,
    verified_at = COALESCE($2, verified_at),
    verified_by = COALESCE($3, verified_by),
    updated_at = $4
WHERE id = $5 AND status = $6
RETURNING id, member_id, amount, proof_ref, purpose, bank_ref, related_entity_id, status, verified_at, verified_by, created_at, updated_at
`

type TransitionDepositStatusParams struct {
	ToStatus   string             `json:"to_status"`
	VerifiedAt pgtype.Timestamptz `json:"verified_at"`
	VerifiedBy *string            `json:"verified_by"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
	ID         string             `json:"id"`
	FromStatus string             `json:"from_status"`
}

func (q *Queries) TransitionDepositStatus(ctx context.Context, arg TransitionDepositStatusParams) (Deposit, error) {
	row := q.db.QueryRow(ctx, transitionDepositStatus,
		arg.ToStatus,
		arg.VerifiedAt,
		arg.VerifiedBy,
		arg.UpdatedAt,
		arg.ID,
		arg.FromStatus,
	)
	var i Deposit
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Amount,
		&i.ProofRef,
		&i.Purpose,
		&i.BankRef,
		&i.RelatedEntityID,
		&i.Status,
		&i.VerifiedAt,
		&i.VerifiedBy,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
