package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is a registered member of the organization. The wallet balance is owned
// by the member and only changes through the wallet credit operation.
type Member struct {
	ID            string
	Name          string
	Email         string
	Role          Role
	Active        bool
	WalletBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplyCredit returns the wallet balance after a credit of amount.
func (m *Member) ApplyCredit(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return m.WalletBalance, ErrInvalidAmount
	}
	return m.WalletBalance.Add(amount), nil
}

// MemberFilter narrows member listings.
type MemberFilter struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
