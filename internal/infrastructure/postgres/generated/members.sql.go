package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createMember = `-- name: CreateMember :one
INSERT INTO members (id, name, email, role, active, wallet_balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, name, email, role, active, wallet_balance, created_at, updated_at
`

type CreateMemberParams struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Role          string             `json:"role"`
	Active        bool               `json:"active"`
	WalletBalance pgtype.Numeric     `json:"wallet_balance"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateMember(ctx context.Context, arg CreateMemberParams) (Member, error) {
	row := q.db.QueryRow(ctx, createMember,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Role,
		arg.Active,
		arg.WalletBalance,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Member
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.Active,
		&i.WalletBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const creditMemberBalance = `-- name: CreditMemberBalance :one
UPDATE members SET wallet_balance = wallet_balance + $1, updated_at = $2
WHERE id = $3
RETURNING wallet_balance
`

type CreditMemberBalanceParams struct {
	Amount    pgtype.Numeric     `json:"amount"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
	ID        string             `json:"id"`
}

func (q *Queries) CreditMemberBalance(ctx context.Context, arg CreditMemberBalanceParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, creditMemberBalance, arg.Amount, arg.UpdatedAt, arg.ID)
	var wallet_balance pgtype.Numeric
	err := row.Scan(&wallet_balance)
	return wallet_balance, err
}

const getMemberBalance = `-- name: GetMemberBalance :one
SELECT id, wallet_balance, updated_at FROM members WHERE id = $1
`

type GetMemberBalanceRow struct {
	ID            string             `json:"id"`
	WalletBalance pgtype.Numeric     `json:"wallet_balance"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) GetMemberBalance(ctx context.Context, id string) (GetMemberBalanceRow, error) {
	row := q.db.QueryRow(ctx, getMemberBalance, id)
	var i GetMemberBalanceRow
	err := row.Scan(&i.ID, &i.WalletBalance, &i.UpdatedAt)
	return i, err
}

const getMemberByEmail = `-- name: GetMemberByEmail :one
SELECT id, name, email, role, active, wallet_balance, created_at, updated_at FROM members WHERE email = $1
`

func (q *Queries) GetMemberByEmail(ctx context.Context, email string) (Member, error) {
	row := q.db.QueryRow(ctx, getMemberByEmail, email)
	var i Member
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.Active,
		&i.WalletBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getMemberByID = `-- name: GetMemberByID :one
SELECT id, name, email, role, active, wallet_balance, created_at, updated_at FROM members WHERE id = $1
`

func (q *Queries) GetMemberByID(ctx context.Context, id string) (Member, error) {
	row := q.db.QueryRow(ctx, getMemberByID, id)
	var i Member
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.Active,
		&i.WalletBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveMemberIDs = `-- name: ListActiveMemberIDs :many
SELECT id FROM members WHERE active ORDER BY id
`

func (q *Queries) ListActiveMemberIDs(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listActiveMemberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listMembers = `-- name: ListMembers :many
SELECT id, name, email, role, active, wallet_balance, created_at, updated_at FROM members
WHERE (NOT $1::bool OR active)
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListMembersParams struct {
	ActiveOnly bool  `json:"active_only"`
	RowLimit   int32 `json:"row_limit"`
	RowOffset  int32 `json:"row_offset"`
}

func (q *Queries) ListMembers(ctx context.Context, arg ListMembersParams) ([]Member, error) {
	rows, err := q.db.Query(ctx, listMembers, arg.ActiveOnly, arg.RowLimit, arg.RowOffset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Member{}
	for rows.Next() {
		var i Member
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Email,
			&i.Role,
			&i.Active,
			&i.WalletBalance,
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

const memberExists = `-- name: MemberExists :one
SELECT EXISTS (SELECT 1 FROM members WHERE id = $1)
`

func (q *Queries) MemberExists(ctx context.Context, id string) (bool, error) {
	row := q.db.QueryRow(ctx, memberExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const setMemberActive = `-- name: SetMemberActive :one
UPDATE members SET active = $2, updated_at = $3
WHERE id = $1
RETURNING id, name, email, role, active, wallet_balance, created_at, updated_at
`

type SetMemberActiveParams struct {
	ID        string             `json:"id"`
	Active    bool               `json:"active"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetMemberActive(ctx context.Context, arg SetMemberActiveParams) (Member, error) {
	row := q.db.QueryRow(ctx, setMemberActive, arg.ID, arg.Active, arg.UpdatedAt)
	var i Member
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Role,
		&i.Active,
		&i.WalletBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
