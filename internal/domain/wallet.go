package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletEntry records a single credit applied to a member's wallet.
// Each verified deposit produces exactly one entry.
type WalletEntry struct {
	CreatedAt       time.Time
	ID              string
	MemberID        string
	DepositID       string
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
}

// Wallet is a read view of a member's balance.
type Wallet struct {
	MemberID  string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}
