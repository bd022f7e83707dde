package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
	"github.com/iho/coopledger/internal/usecase/mocks"
)

func TestReconcileMember(t *testing.T) {
	t.Parallel()

	f := newDepositFixture(t)
	ctx := context.Background()

	deposit := f.createDeposit(t, 150)
	if _, err := f.uc.Verify(ctx, deposit.ID); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	uc := usecase.NewReconciliationUseCase(f.members, f.wallets)

	result, err := uc.ReconcileMember(ctx, "mem-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.RecordedBalance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected balance 150, got %s", result.RecordedBalance)
	}

	if !result.IsReconciled {
		t.Fatalf("expected member to be reconciled, difference %s", result.Difference)
	}

	if result.LastChecked.IsZero() {
		t.Fatal("expected LastChecked timestamp to be set")
	}
}

func TestReconcileMember_PropagatesError(t *testing.T) {
	t.Parallel()

	members := mocks.NewMockMemberRepository()
	wallets := mocks.NewMockWalletRepository(members)
	wallets.GetBalanceFunc = func(context.Context, string) (*domain.Wallet, error) {
		return nil, fmt.Errorf("boom")
	}

	uc := usecase.NewReconciliationUseCase(members, wallets)

	_, err := uc.ReconcileMember(context.Background(), "missing")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestGenerateReconciliationReport_FlagsDrift(t *testing.T) {
	t.Parallel()

	members := mocks.NewMockMemberRepository()
	members.AddMember(&domain.Member{ID: "r1", Email: "r1@example.com", Active: true, WalletBalance: decimal.Zero})
	members.AddMember(&domain.Member{ID: "r2", Email: "r2@example.com", Active: false, WalletBalance: decimal.NewFromInt(20)})
	wallets := mocks.NewMockWalletRepository(members)

	uc := usecase.NewReconciliationUseCase(members, wallets)

	report, err := uc.GenerateReconciliationReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalMembers != 2 {
		t.Fatalf("expected total members 2, got %d", report.TotalMembers)
	}

	if report.ReconciledMembers != 1 {
		t.Fatalf("expected 1 reconciled member, got %d", report.ReconciledMembers)
	}

	if len(report.Discrepancies) != 1 || report.Discrepancies[0].MemberID != "r2" {
		t.Fatalf("expected r2 to be reported, got %+v", report.Discrepancies)
	}

	if !report.Discrepancies[0].Difference.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected difference 20, got %s", report.Discrepancies[0].Difference)
	}

	if report.WalletsConsistent {
		t.Fatal("expected wallets to be marked inconsistent")
	}

	if report.CheckedAt.IsZero() {
		t.Fatal("expected CheckedAt timestamp")
	}
}

func TestCheckWalletConsistency(t *testing.T) {
	t.Parallel()

	members := mocks.NewMockMemberRepository()
	wallets := mocks.NewMockWalletRepository(members)
	uc := usecase.NewReconciliationUseCase(members, wallets)

	wallets.TotalsFunc = func(context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.NewFromInt(500), decimal.NewFromInt(500), nil
	}
	if err := uc.CheckWalletConsistency(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wallets.TotalsFunc = func(context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.NewFromInt(100), decimal.NewFromInt(50), nil
	}
	if err := uc.CheckWalletConsistency(context.Background()); !errors.Is(err, usecase.ErrInconsistentWallets) {
		t.Fatalf("expected ErrInconsistentWallets, got %v", err)
	}

	wallets.TotalsFunc = func(context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.Zero, decimal.Zero, errors.New("timeout")
	}
	if _, err := uc.GenerateReconciliationReport(context.Background()); err == nil || err.Error() != "timeout" {
		t.Fatalf("expected storage error to abort the report, got %v", err)
	}
}
