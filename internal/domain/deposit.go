package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus represents the state of a deposit.
type DepositStatus string

const (
	DepositStatusPending  DepositStatus = "PENDING"
	DepositStatusVerified DepositStatus = "VERIFIED"
	DepositStatusRejected DepositStatus = "REJECTED"
)

// ParseDepositStatus normalises s into a known deposit status.
func ParseDepositStatus(s string) (DepositStatus, error) {
	switch status := DepositStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case DepositStatusPending, DepositStatusVerified, DepositStatusRejected:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Deposit is a member's submitted payment awaiting administrative confirmation.
type Deposit struct {
	ID              string
	MemberID        string
	Amount          decimal.Decimal
	ProofRef        *string
	Purpose         *string
	BankRef         *string
	RelatedEntityID *string
	Status          DepositStatus
	VerifiedAt      *time.Time
	VerifiedBy      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate checks the fields a new deposit must carry.
func (d *Deposit) Validate() error {
	if strings.TrimSpace(d.MemberID) == "" {
		return ErrInvalidMemberID
	}
	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}
	for _, f := range []*string{d.ProofRef, d.Purpose, d.BankRef, d.RelatedEntityID} {
		if f != nil && len(*f) > MaxDepositFieldLength {
			return ErrFieldTooLong
		}
	}
	return nil
}

// IsVerified reports whether the deposit already credited the wallet.
func (d *Deposit) IsVerified() bool {
	return d.Status == DepositStatusVerified
}

// CheckTransition validates a move from the current status to next.
// A verified deposit is final: it cannot be demoted.
func (d *Deposit) CheckTransition(next DepositStatus) error {
	if d.Status == DepositStatusVerified {
		if next == DepositStatusVerified {
			return ErrAlreadyVerified
		}
		return ErrVerifiedDepositLocked
	}
	return nil
}

// CheckDeletable validates that the deposit can be removed.
func (d *Deposit) CheckDeletable() error {
	if d.Status == DepositStatusVerified {
		return ErrVerifiedDepositLocked
	}
	return nil
}

// DepositFilter narrows deposit listings.
type DepositFilter struct {
	MemberID *string
	Status   *DepositStatus
	Limit    int
	Offset   int
}
