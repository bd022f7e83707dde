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

type capitalService interface {
	Create(ctx context.Context, input usecase.CreateCapitalInput) (*domain.Capital, error)
	EnsureAnnualForAllMembers(ctx context.Context, input usecase.GenerateAnnualInput) (*domain.CapitalGenerationReport, error)
	ListAll(ctx context.Context, input usecase.ListCapitalsInput) (*domain.CapitalPage, error)
	Get(ctx context.Context, capitalID string) (*domain.Capital, error)
	UpdateStatus(ctx context.Context, capitalID string, status string) (*domain.Capital, error)
	MarkPaid(ctx context.Context, capitalID string) (*domain.Capital, error)
	Delete(ctx context.Context, capitalID string) (*domain.Capital, error)
	GetForMemberYear(ctx context.Context, memberID string, year int) (*domain.Capital, error)
	GetCurrentYearForMember(ctx context.Context, memberID string) (*domain.Capital, error)
	EnsureCurrentYearForMember(ctx context.Context, memberID string) (*domain.Capital, error)
	IsCurrentYearPaid(ctx context.Context, memberID string) (*domain.PaidCheck, error)
}

// CapitalHandler handles capital obligation HTTP requests.
type CapitalHandler struct {
	capitalUC capitalService
}

// NewCapitalHandler creates a new CapitalHandler.
func NewCapitalHandler(capitalUC capitalService) *CapitalHandler {
	return &CapitalHandler{capitalUC: capitalUC}
}

// Create creates a capital explicitly. An existing (member, year) pair is a conflict.
func (h *CapitalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCapitalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	capital, err := h.capitalUC.Create(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CapitalFromDomain(capital))
}

// Generate ensures a capital exists for every active member for the year.
func (h *CapitalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateCapitalsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.capitalUC.EnsureAnnualForAllMembers(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.GenerationReportFromDomain(report))
}

// List lists capitals with optional year, member_id and status filters.
func (h *CapitalHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListCapitalsInput{
		MemberID: optionalQuery(r, "member_id"),
		Status:   optionalQuery(r, "status"),
		Page:     parseIntQuery(r, "page", 1),
		Limit:    parseIntQuery(r, "limit", 20),
	}

	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "invalid year")
			return
		}
		input.Year = &year
	}

	page, err := h.capitalUC.ListAll(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalPageFromDomain(page))
}

// Get retrieves a capital by ID.
func (h *CapitalHandler) Get(w http.ResponseWriter, r *http.Request) {
	capital, err := h.capitalUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalFromDomain(capital))
}

// UpdateStatus sets a capital's status.
func (h *CapitalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	capital, err := h.capitalUC.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalFromDomain(capital))
}

// MarkPaid marks a capital as PAID.
func (h *CapitalHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	capital, err := h.capitalUC.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalFromDomain(capital))
}

// Delete removes a capital.
func (h *CapitalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	capital, err := h.capitalUC.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalFromDomain(capital))
}

// GetForMemberYear returns a member's capital for the year in the path.
func (h *CapitalHandler) GetForMemberYear(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if _, ok := authorizeMember(w, r, memberID); !ok {
		return
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeBadRequest(w, "invalid year")
		return
	}

	capital, err := h.capitalUC.GetForMemberYear(r.Context(), memberID, year)
	h.writeOptional(w, capital, err)
}

// GetCurrentYear returns a member's current-year capital. With ensure=true
// the record is created when absent.
func (h *CapitalHandler) GetCurrentYear(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if _, ok := authorizeMember(w, r, memberID); !ok {
		return
	}

	var (
		capital *domain.Capital
		err     error
	)
	if ensure, _ := strconv.ParseBool(r.URL.Query().Get("ensure")); ensure {
		capital, err = h.capitalUC.EnsureCurrentYearForMember(r.Context(), memberID)
	} else {
		capital, err = h.capitalUC.GetCurrentYearForMember(r.Context(), memberID)
	}
	h.writeOptional(w, capital, err)
}

// IsCurrentYearPaid reports whether the member's current-year capital is PAID.
func (h *CapitalHandler) IsCurrentYearPaid(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")
	if _, ok := authorizeMember(w, r, memberID); !ok {
		return
	}

	check, err := h.capitalUC.IsCurrentYearPaid(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaidCheckFromDomain(check))
}

// writeOptional renders an absent capital as CAPITAL_NOT_FOUND.
func (h *CapitalHandler) writeOptional(w http.ResponseWriter, capital *domain.Capital, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if capital == nil {
		writeDomainError(w, domain.ErrCapitalNotFound)
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalFromDomain(capital))
}
