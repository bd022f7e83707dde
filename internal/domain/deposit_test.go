package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDepositStatus(t *testing.T) {
	tests := []struct {
		in          string
		expected    DepositStatus
		expectError error
	}{
		{in: "PENDING", expected: DepositStatusPending},
		{in: "verified", expected: DepositStatusVerified},
		{in: " Rejected ", expected: DepositStatusRejected},
		{in: "DELETED", expectError: ErrInvalidStatus},
		{in: "", expectError: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDepositStatus(tt.in)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestDeposit_Validate(t *testing.T) {
	long := strings.Repeat("x", MaxDepositFieldLength+1)

	tests := []struct {
		name        string
		deposit     Deposit
		expectError error
	}{
		{
			name:    "valid deposit",
			deposit: Deposit{MemberID: "mem-1", Amount: decimal.NewFromInt(500)},
		},
		{
			name:        "missing member",
			deposit:     Deposit{Amount: decimal.NewFromInt(500)},
			expectError: ErrInvalidMemberID,
		},
		{
			name:        "zero amount",
			deposit:     Deposit{MemberID: "mem-1", Amount: decimal.Zero},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			deposit:     Deposit{MemberID: "mem-1", Amount: decimal.NewFromInt(-1)},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "purpose too long",
			deposit:     Deposit{MemberID: "mem-1", Amount: decimal.NewFromInt(1), Purpose: &long},
			expectError: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deposit.Validate()
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestDeposit_CheckTransition(t *testing.T) {
	tests := []struct {
		from        DepositStatus
		to          DepositStatus
		expectError error
	}{
		{from: DepositStatusPending, to: DepositStatusVerified},
		{from: DepositStatusPending, to: DepositStatusRejected},
		{from: DepositStatusRejected, to: DepositStatusPending},
		{from: DepositStatusRejected, to: DepositStatusVerified},
		{from: DepositStatusVerified, to: DepositStatusVerified, expectError: ErrAlreadyVerified},
		{from: DepositStatusVerified, to: DepositStatusPending, expectError: ErrVerifiedDepositLocked},
		{from: DepositStatusVerified, to: DepositStatusRejected, expectError: ErrVerifiedDepositLocked},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			d := &Deposit{Status: tt.from}
			if err := d.CheckTransition(tt.to); !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestDeposit_CheckDeletable(t *testing.T) {
	if err := (&Deposit{Status: DepositStatusPending}).CheckDeletable(); err != nil {
		t.Fatalf("pending deposit should be deletable, got %v", err)
	}
	if err := (&Deposit{Status: DepositStatusRejected}).CheckDeletable(); err != nil {
		t.Fatalf("rejected deposit should be deletable, got %v", err)
	}
	err := (&Deposit{Status: DepositStatusVerified}).CheckDeletable()
	if KindOf(err) != KindInvalidStatus {
		t.Fatalf("expected INVALID_STATUS, got %v", err)
	}
}
