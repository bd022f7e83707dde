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

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a new member.
func (r *MemberRepository) Create(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateMember(ctx, generated.CreateMemberParams{
		ID:            member.ID,
		Name:          member.Name,
		Email:         member.Email,
		Role:          string(member.Role),
		Active:        member.Active,
		WalletBalance: decimalToNumeric(member.WalletBalance),
		CreatedAt:     timeToPgTimestamptz(member.CreatedAt),
		UpdatedAt:     timeToPgTimestamptz(member.UpdatedAt),
	})
	if isUniqueViolation(err, "") {
		return domain.ErrDuplicateMember
	}

	return err
}

// GetByID retrieves a member by ID.
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	row, err := r.queries.GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	return rowToMember(row), nil
}

// GetByEmail retrieves a member by email.
func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	row, err := r.queries.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	return rowToMember(row), nil
}

// List lists members ordered by registration time.
func (r *MemberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error) {
	rows, err := r.queries.ListMembers(ctx, generated.ListMembersParams{
		ActiveOnly: filter.ActiveOnly,
		RowLimit:   int32(filter.Limit),
		RowOffset:  int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	members := make([]*domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, rowToMember(row))
	}

	return members, nil
}

// SetActive activates or deactivates a member.
func (r *MemberRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) (*domain.Member, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.SetMemberActive(ctx, generated.SetMemberActiveParams{
		ID:        id,
		Active:    active,
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	return rowToMember(row), nil
}

// ListActiveMembers returns the IDs of all active members.
func (r *MemberRepository) ListActiveMembers(ctx context.Context) ([]string, error) {
	return r.queries.ListActiveMemberIDs(ctx)
}

// MemberExists reports whether a member with the given ID is registered.
func (r *MemberRepository) MemberExists(ctx context.Context, id string) (bool, error) {
	return r.queries.MemberExists(ctx, id)
}

func rowToMember(row generated.Member) *domain.Member {
	return &domain.Member{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		Role:          domain.Role(row.Role),
		Active:        row.Active,
		WalletBalance: numericToDecimal(row.WalletBalance),
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
