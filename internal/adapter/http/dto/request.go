package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

// RegisterMemberRequest represents a request to register a member.
type RegisterMemberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// ToUseCaseInput converts to use case input. An empty role registers a plain member.
func (r *RegisterMemberRequest) ToUseCaseInput() usecase.RegisterMemberInput {
	role := domain.Role(r.Role)
	if role == "" {
		role = domain.RoleMember
	}
	return usecase.RegisterMemberInput{
		Name:  r.Name,
		Email: r.Email,
		Role:  role,
	}
}

// CreateDepositRequest represents a request to submit a deposit.
type CreateDepositRequest struct {
	MemberID        string          `json:"member_id"`
	Amount          decimal.Decimal `json:"amount"`
	ProofRef        *string         `json:"proof_ref,omitempty"`
	Purpose         *string         `json:"purpose,omitempty"`
	BankRef         *string         `json:"bank_ref,omitempty"`
	RelatedEntityID *string         `json:"related_entity_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDepositRequest) ToUseCaseInput() usecase.CreateDepositInput {
	return usecase.CreateDepositInput{
		MemberID:        r.MemberID,
		Amount:          r.Amount,
		ProofRef:        r.ProofRef,
		Purpose:         r.Purpose,
		BankRef:         r.BankRef,
		RelatedEntityID: r.RelatedEntityID,
	}
}

// UpdateStatusRequest carries a target status for a deposit or capital.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateCapitalRequest represents a request to create a capital explicitly.
type CreateCapitalRequest struct {
	MemberID string          `json:"member_id"`
	Year     int             `json:"year"`
	Amount   decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCapitalRequest) ToUseCaseInput() usecase.CreateCapitalInput {
	return usecase.CreateCapitalInput{
		MemberID: r.MemberID,
		Year:     r.Year,
		Amount:   r.Amount,
	}
}

// GenerateCapitalsRequest represents a bulk generation run. Year 0 means the current year.
type GenerateCapitalsRequest struct {
	Year   int             `json:"year,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *GenerateCapitalsRequest) ToUseCaseInput() usecase.GenerateAnnualInput {
	return usecase.GenerateAnnualInput{
		Year:            r.Year,
		AmountPerMember: r.Amount,
	}
}
