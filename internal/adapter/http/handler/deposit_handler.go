package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/coopledger/internal/adapter/http/dto"
	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

type depositService interface {
	Create(ctx context.Context, input usecase.CreateDepositInput) (*domain.Deposit, error)
	Verify(ctx context.Context, depositID string) (*usecase.VerifyResult, error)
	UpdateStatus(ctx context.Context, depositID string, status string) (*domain.Deposit, error)
	Delete(ctx context.Context, depositID string) (*domain.Deposit, error)
	Get(ctx context.Context, depositID string) (*domain.Deposit, error)
	List(ctx context.Context, input usecase.ListDepositsInput) ([]*domain.Deposit, error)
}

// DepositHandler handles deposit-related HTTP requests.
type DepositHandler struct {
	depositUC depositService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC depositService) *DepositHandler {
	return &DepositHandler{depositUC: depositUC}
}

// Create submits a PENDING deposit. Members may only submit for themselves.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.MemberID == "" {
		if user, ok := domain.UserFromContext(r.Context()); ok && !user.Role.CanAdminister() {
			req.MemberID = user.ID
		}
	}

	if _, ok := authorizeMember(w, r, req.MemberID); !ok {
		return
	}

	deposit, err := h.depositUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromDomain(deposit))
}

// Get retrieves a deposit by ID.
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing deposit ID")
		return
	}

	deposit, err := h.depositUC.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if _, ok := authorizeMember(w, r, deposit.MemberID); !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// List lists deposits. Members only ever see their own.
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, domain.ErrUnauthorized.Error())
		return
	}

	memberID := optionalQuery(r, "member_id")
	if !user.Role.CanAdminister() {
		if memberID != nil && *memberID != user.ID {
			writeError(w, http.StatusForbidden, codeForbidden, domain.ErrInsufficientRole.Error())
			return
		}
		memberID = &user.ID
	}

	deposits, err := h.depositUC.List(r.Context(), usecase.ListDepositsInput{
		MemberID: memberID,
		Status:   optionalQuery(r, "status"),
		Page:     parseIntQuery(r, "page", 1),
		Limit:    parseIntQuery(r, "limit", 20),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositsFromDomain(deposits))
}

// Verify verifies a PENDING deposit and credits the member's wallet.
func (h *DepositHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing deposit ID")
		return
	}

	result, err := h.depositUC.Verify(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.VerifyFromResult(result))
}

// UpdateStatus applies an administrative status correction.
func (h *DepositHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing deposit ID")
		return
	}

	var req dto.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	deposit, err := h.depositUC.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// Delete removes an unverified deposit.
func (h *DepositHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing deposit ID")
		return
	}

	deposit, err := h.depositUC.Delete(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}
