package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CapitalStatus represents the payment state of a capital obligation.
type CapitalStatus string

const (
	CapitalStatusPending CapitalStatus = "PENDING"
	CapitalStatusPaid    CapitalStatus = "PAID"
)

// ParseCapitalStatus normalises s into a known capital status.
func ParseCapitalStatus(s string) (CapitalStatus, error) {
	switch status := CapitalStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case CapitalStatusPending, CapitalStatusPaid:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Capital is the annual membership-share obligation of one member for one year.
// There is at most one Capital per (MemberID, Year).
type Capital struct {
	ID        string
	MemberID  string
	Year      int
	Amount    decimal.Decimal
	Status    CapitalStatus
	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a new capital must carry.
func (c *Capital) Validate() error {
	if strings.TrimSpace(c.MemberID) == "" {
		return ErrInvalidMemberID
	}
	if err := ValidateYear(c.Year); err != nil {
		return err
	}
	return ValidateAmount(c.Amount)
}

// IsPaid reports whether the obligation is settled.
func (c *Capital) IsPaid() bool {
	return c.Status == CapitalStatusPaid
}

// CapitalFilter narrows administrative capital listings.
type CapitalFilter struct {
	Year     *int
	MemberID *string
	Status   *CapitalStatus
	Limit    int
	Offset   int
}

// CapitalPage is one page of a filtered capital listing.
type CapitalPage struct {
	Items []*Capital
	Total int64
	Page  int
	Limit int
}

// CapitalGenerationReport summarises one bulk generation run.
type CapitalGenerationReport struct {
	Year    int
	Amount  decimal.Decimal
	Created []string
	Skipped []string
}

// PaidCheck is the result of a current-year payment check.
type PaidCheck struct {
	Paid    bool
	Capital *Capital
}
