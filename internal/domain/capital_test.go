package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseCapitalStatus(t *testing.T) {
	if s, err := ParseCapitalStatus("paid"); err != nil || s != CapitalStatusPaid {
		t.Fatalf("expected PAID, got %q (%v)", s, err)
	}
	if s, err := ParseCapitalStatus("PENDING"); err != nil || s != CapitalStatusPending {
		t.Fatalf("expected PENDING, got %q (%v)", s, err)
	}
	if _, err := ParseCapitalStatus("OVERDUE"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestCapital_Validate(t *testing.T) {
	tests := []struct {
		name        string
		capital     Capital
		expectError error
	}{
		{
			name:    "valid",
			capital: Capital{MemberID: "mem-1", Year: 2025, Amount: decimal.NewFromInt(100000)},
		},
		{
			name:        "missing member",
			capital:     Capital{Year: 2025, Amount: decimal.NewFromInt(1)},
			expectError: ErrInvalidMemberID,
		},
		{
			name:        "year out of range",
			capital:     Capital{MemberID: "mem-1", Year: 1200, Amount: decimal.NewFromInt(1)},
			expectError: ErrInvalidYear,
		},
		{
			name:        "zero amount",
			capital:     Capital{MemberID: "mem-1", Year: 2025, Amount: decimal.Zero},
			expectError: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.capital.Validate(); !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}
