package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/coopledger/internal/adapter/http/dto"
	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

type historyService interface {
	DepositHistory(ctx context.Context, depositID string) (*usecase.ResourceHistory, error)
	CapitalHistory(ctx context.Context, capitalID string) (*usecase.ResourceHistory, error)
	MemberHistory(ctx context.Context, memberID string) (*usecase.ResourceHistory, error)
	ListAudit(ctx context.Context, input usecase.ListAuditInput) ([]*domain.AuditLog, error)
}

// HistoryHandler serves the audit trail and event history of resources.
type HistoryHandler struct {
	historyUC historyService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyUC historyService) *HistoryHandler {
	return &HistoryHandler{historyUC: historyUC}
}

// Deposit returns the history of a deposit, including a deleted one.
func (h *HistoryHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "deposit", h.historyUC.DepositHistory)
}

// Capital returns the history of a capital record.
func (h *HistoryHandler) Capital(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "capital", h.historyUC.CapitalHistory)
}

// Member returns the history of a member.
func (h *HistoryHandler) Member(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "member", h.historyUC.MemberHistory)
}

func (h *HistoryHandler) serve(w http.ResponseWriter, r *http.Request, resource string,
	load func(ctx context.Context, id string) (*usecase.ResourceHistory, error)) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "missing "+resource+" ID")
		return
	}

	history, err := load(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryFromUseCase(history))
}

// ListAudit lists audit entries, newest first. since and until take RFC 3339
// timestamps and bound the window as [since, until).
func (h *HistoryHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	since, ok := parseTimeQuery(w, r, "since")
	if !ok {
		return
	}
	until, ok := parseTimeQuery(w, r, "until")
	if !ok {
		return
	}

	q := r.URL.Query()
	logs, err := h.historyUC.ListAudit(r.Context(), usecase.ListAuditInput{
		UserID:       q.Get("user_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Since:        since,
		Until:        until,
		Page:         parseIntQuery(r, "page", 1),
		Limit:        parseIntQuery(r, "limit", domain.DefaultPageSize),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

// parseTimeQuery parses an optional RFC 3339 query parameter, writing a 400
// when it is malformed.
func parseTimeQuery(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		writeBadRequest(w, "invalid "+key+": expected RFC 3339 timestamp")
		return nil, false
	}
	return &t, true
}
