package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countCapitals = `-- name: CountCapitals :one
SELECT COUNT(*) FROM capitals
WHERE ($1::int IS NULL OR year = $1)
  AND ($2::text IS NULL OR member_id = $2)
  AND ($3::text IS NULL OR status = $3)
`

type CountCapitalsParams struct {
	Year     *int32  `json:"year"`
	MemberID *string `json:"member_id"`
	Status   *string `json:"status"`
}

func (q *Queries) CountCapitals(ctx context.Context, arg CountCapitalsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countCapitals, arg.Year, arg.MemberID, arg.Status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createCapital = `-- name: CreateCapital :one
INSERT INTO capitals (id, member_id, year, amount, status, paid_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, member_id, year, amount, status, paid_at, created_at, updated_at
`

type CreateCapitalParams struct {
	ID        string             `json:"id"`
	MemberID  string             `json:"member_id"`
	Year      int32              `json:"year"`
	Amount    pgtype.Numeric     `json:"amount"`
	Status    string             `json:"status"`
	PaidAt    pgtype.Timestamptz `json:"paid_at"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCapital(ctx context.Context, arg CreateCapitalParams) (Capital, error) {
	row := q.db.QueryRow(ctx, createCapital,
		arg.ID,
		arg.MemberID,
		arg.Year,
		arg.Amount,
		arg.Status,
		arg.PaidAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Capital
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Year,
		&i.Amount,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCapitalIfAbsent = `-- name: CreateCapitalIfAbsent :execrows
INSERT INTO capitals (id, member_id, year, amount, status, paid_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (member_id, year) DO NOTHING
`

type CreateCapitalIfAbsentParams struct {
	ID        string             `json:"id"`
	MemberID  string             `json:"member_id"`
	Year      int32              `json:"year"`
	Amount    pgtype.Numeric     `json:"amount"`
	Status    string             `json:"status"`
	PaidAt    pgtype.Timestamptz `json:"paid_at"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCapitalIfAbsent(ctx context.Context, arg CreateCapitalIfAbsentParams) (int64, error) {
	result, err := q.db.Exec(ctx, createCapitalIfAbsent,
		arg.ID,
		arg.MemberID,
		arg.Year,
		arg.Amount,
		arg.Status,
		arg.PaidAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteCapital = `-- name: DeleteCapital :one
DELETE FROM capitals WHERE id = $1
RETURNING id, member_id, year, amount, status, paid_at, created_at, updated_at
`

func (q *Queries) DeleteCapital(ctx context.Context, id string) (Capital, error) {
	row := q.db.QueryRow(ctx, deleteCapital, id)
	var i Capital
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Year,
		&i.Amount,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCapitalByID = `-- name: GetCapitalByID :one
SELECT id, member_id, year, amount, status, paid_at, created_at, updated_at FROM capitals WHERE id = $1
`

func (q *Queries) GetCapitalByID(ctx context.Context, id string) (Capital, error) {
	row := q.db.QueryRow(ctx, getCapitalByID, id)
	var i Capital
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Year,
		&i.Amount,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCapitalByIDForUpdate = `-- name: GetCapitalByIDForUpdate :one
SELECT id, member_id, year, amount, status, paid_at, created_at, updated_at FROM capitals WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetCapitalByIDForUpdate(ctx context.Context, id string) (Capital, error) {
	row := q.db.QueryRow(ctx, getCapitalByIDForUpdate, id)
	var i Capital
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Year,
		&i.Amount,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCapitalByMemberYear = `-- name: GetCapitalByMemberYear :one
SELECT id, member_id, year, amount, status, paid_at, created_at, updated_at FROM capitals WHERE member_id = $1 AND year = $2
`

type GetCapitalByMemberYearParams struct {
	MemberID string `json:"member_id"`
	Year     int32  `json:"year"`
}

func (q *Queries) GetCapitalByMemberYear(ctx context.Context, arg GetCapitalByMemberYearParams) (Capital, error) {
	row := q.db.QueryRow(ctx, getCapitalByMemberYear, arg.MemberID, arg.Year)
	var i Capital
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Year,
		&i.Amount,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCapitals = `-- name: ListCapitals :many
SELECT id, member_id, year, amount, status, paid_at, created_at, updated_at FROM capitals
WHERE ($1::int IS NULL OR year = $1)
  AND ($2::text IS NULL OR member_id = $2)
  AND ($3::text IS NULL OR status = $3)
ORDER BY year DESC, member_id
LIMIT $4 OFFSET $5
`

type ListCapitalsParams struct {
	Year      *int32  `json:"year"`
	MemberID  *string `json:"member_id"`
	Status    *string `json:"status"`
	RowLimit  int32   `json:"row_limit"`
	RowOffset int32   `json:"row_offset"`
}

func (q *Queries) ListCapitals(ctx context.Context, arg ListCapitalsParams) ([]Capital, error) {
	rows, err := q.db.Query(ctx, listCapitals,
		arg.Year,
		arg.MemberID,
		arg.Status,
		arg.RowLimit,
		arg.RowOffset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Capital{}
	for rows.Next() {
		var i Capital
		if err := rows.Scan(
			&i.ID,
			&i.MemberID,
			&i.Year,
			&i.Amount,
			&i.Status,
			&i.PaidAt,
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

const updateCapitalStatus = `-- name: UpdateCapitalStatus :one
UPDATE capitals SET status = $2, paid_at = $3, updated_at = $4
WHERE id = $1
RETURNING id, member_id, year, amount, status, paid_at, created_at, updated_at
`

type UpdateCapitalStatusParams struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	PaidAt    pgtype.Timestamptz `json:"paid_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCapitalStatus(ctx context.Context, arg UpdateCapitalStatusParams) (Capital, error) {
	row := q.db.QueryRow(ctx, updateCapitalStatus,
		arg.ID,
		arg.Status,
		arg.PaidAt,
		arg.UpdatedAt,
	)
	var i Capital
	err := row.Scan(
		&i.ID,
		&i.MemberID,
		&i.Year,
		&i.Amount,
		&i.Status,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
