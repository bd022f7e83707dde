package usecase

import (
	"context"
	"math"

	"github.com/iho/coopledger/internal/domain"
)

// WalletUseCase exposes read access to member wallets.
type WalletUseCase struct {
	walletRepo WalletRepository
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(walletRepo WalletRepository) *WalletUseCase {
	return &WalletUseCase{
		walletRepo: walletRepo,
	}
}

// ListEntriesInput represents input for listing wallet entries.
type ListEntriesInput struct {
	MemberID string
	Limit    int
	Offset   int
}

// GetWallet returns the member's current balance.
func (uc *WalletUseCase) GetWallet(ctx context.Context, memberID string) (*domain.Wallet, error) {
	return uc.walletRepo.GetBalance(ctx, memberID)
}

// ListEntries lists the credits applied to the member's wallet, newest first.
func (uc *WalletUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.WalletEntry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	if input.Offset > math.MaxInt32 {
		input.Offset = math.MaxInt32
	}

	return uc.walletRepo.ListEntries(ctx, input.MemberID, input.Limit, input.Offset)
}
