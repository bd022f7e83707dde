package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
)

// ErrInconsistentWallets is returned when wallet balances disagree with their entries.
var ErrInconsistentWallets = errors.New("wallets are inconsistent: balances do not equal credited entries")

// ReconciliationUseCase checks that wallet balances match their credit history.
type ReconciliationUseCase struct {
	memberRepo MemberRepository
	walletRepo WalletRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(memberRepo MemberRepository, walletRepo WalletRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		memberRepo: memberRepo,
		walletRepo: walletRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	MemberID          string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalMembers      int
	ReconciledMembers int
	Discrepancies     []*ReconciliationResult
	WalletsConsistent bool
	CheckedAt         time.Time
}

// ReconcileMember compares the member's wallet balance with the sum of its entries.
func (uc *ReconciliationUseCase) ReconcileMember(ctx context.Context, memberID string) (*ReconciliationResult, error) {
	wallet, err := uc.walletRepo.GetBalance(ctx, memberID)
	if err != nil {
		return nil, err
	}

	calculated, err := uc.walletRepo.SumEntries(ctx, memberID)
	if err != nil {
		return nil, err
	}

	diff := wallet.Balance.Sub(calculated)

	return &ReconciliationResult{
		MemberID:          memberID,
		RecordedBalance:   wallet.Balance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllMembers reconciles every member, active or not.
func (uc *ReconciliationUseCase) ReconcileAllMembers(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += domain.MaxPageSize {
		members, err := uc.memberRepo.List(ctx, domain.MemberFilter{Limit: domain.MaxPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}

		for _, member := range members {
			result, err := uc.ReconcileMember(ctx, member.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile member %s: %w", member.ID, err)
			}
			results = append(results, result)
		}

		if len(members) < domain.MaxPageSize {
			break
		}
	}

	return results, nil
}

// CheckWalletConsistency verifies that the total of all balances equals the total credited.
func (uc *ReconciliationUseCase) CheckWalletConsistency(ctx context.Context) error {
	balances, credited, err := uc.walletRepo.Totals(ctx)
	if err != nil {
		return err
	}

	if !balances.Equal(credited) {
		return fmt.Errorf("%w: balances=%s credited=%s difference=%s",
			ErrInconsistentWallets, balances.String(), credited.String(), balances.Sub(credited).String())
	}

	return nil
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllMembers(ctx)
	if err != nil {
		return nil, err
	}

	consistencyErr := uc.CheckWalletConsistency(ctx)
	if consistencyErr != nil && !errors.Is(consistencyErr, ErrInconsistentWallets) {
		return nil, consistencyErr
	}

	report := &ReconciliationReport{
		TotalMembers:      len(results),
		Discrepancies:     make([]*ReconciliationResult, 0),
		WalletsConsistent: consistencyErr == nil,
		CheckedAt:         time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledMembers++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
