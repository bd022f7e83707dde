package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/coopledger/internal/adapter/http/dto"
	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

type memberService interface {
	Register(ctx context.Context, input usecase.RegisterMemberInput) (*usecase.RegisterResult, error)
	Get(ctx context.Context, memberID string) (*domain.Member, error)
	List(ctx context.Context, input usecase.ListMembersInput) ([]*domain.Member, error)
	Deactivate(ctx context.Context, memberID string) (*domain.Member, error)
}

// MemberHandler handles member directory HTTP requests.
type MemberHandler struct {
	memberUC memberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC memberService) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// Register registers a member. The registration succeeds even when the
// capital hook fails; the failure is reported in hook_error.
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.memberUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegisterFromResult(result))
}

// Get retrieves a member by ID.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.memberUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}

// List lists members.
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active_only"))

	members, err := h.memberUC.List(r.Context(), usecase.ListMembersInput{
		ActiveOnly: activeOnly,
		Page:       parseIntQuery(r, "page", 1),
		Limit:      parseIntQuery(r, "limit", 20),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MembersFromDomain(members))
}

// Deactivate removes a member from future capital generation runs.
func (h *MemberHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	member, err := h.memberUC.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromDomain(member))
}
