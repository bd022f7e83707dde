package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/coopledger/internal/adapter/http/dto"
	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

type walletService interface {
	GetWallet(ctx context.Context, memberID string) (*domain.Wallet, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.WalletEntry, error)
}

// WalletHandler exposes member wallets.
type WalletHandler struct {
	walletUC walletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC walletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Get returns the member's wallet balance.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if _, ok := authorizeMember(w, r, memberID); !ok {
		return
	}

	wallet, err := h.walletUC.GetWallet(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// ListEntries lists the member's wallet credits.
func (h *WalletHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if _, ok := authorizeMember(w, r, memberID); !ok {
		return
	}

	entries, err := h.walletUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		MemberID: memberID,
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletEntriesFromDomain(entries))
}
