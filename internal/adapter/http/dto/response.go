package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

// ErrorResponse represents an error response. Error holds the error kind.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Role          string          `json:"role"`
	Active        bool            `json:"active"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		Role:          string(m.Role),
		Active:        m.Active,
		WalletBalance: m.WalletBalance,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = MemberFromDomain(m)
	}
	return result
}

// RegisterResponse is returned by member registration. HookError is set when
// the member was registered but the current-year capital could not be created.
type RegisterResponse struct {
	Member    *MemberResponse  `json:"member"`
	Capital   *CapitalResponse `json:"capital,omitempty"`
	HookError string           `json:"hook_error,omitempty"`
}

// RegisterFromResult converts a registration result to a response.
func RegisterFromResult(res *usecase.RegisterResult) *RegisterResponse {
	resp := &RegisterResponse{Member: MemberFromDomain(res.Member)}
	if res.Capital != nil {
		resp.Capital = CapitalFromDomain(res.Capital)
	}
	if res.HookErr != nil {
		resp.HookError = res.HookErr.Error()
	}
	return resp
}

// DepositResponse represents a deposit in API responses.
type DepositResponse struct {
	ID              string          `json:"id"`
	MemberID        string          `json:"member_id"`
	Amount          decimal.Decimal `json:"amount"`
	ProofRef        *string         `json:"proof_ref,omitempty"`
	Purpose         *string         `json:"purpose,omitempty"`
	BankRef         *string         `json:"bank_ref,omitempty"`
	RelatedEntityID *string         `json:"related_entity_id,omitempty"`
	Status          string          `json:"status"`
	VerifiedAt      *time.Time      `json:"verified_at,omitempty"`
	VerifiedBy      *string         `json:"verified_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DepositFromDomain converts a domain deposit to a response.
func DepositFromDomain(d *domain.Deposit) *DepositResponse {
	return &DepositResponse{
		ID:              d.ID,
		MemberID:        d.MemberID,
		Amount:          d.Amount,
		ProofRef:        d.ProofRef,
		Purpose:         d.Purpose,
		BankRef:         d.BankRef,
		RelatedEntityID: d.RelatedEntityID,
		Status:          string(d.Status),
		VerifiedAt:      d.VerifiedAt,
		VerifiedBy:      d.VerifiedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// DepositsFromDomain converts domain deposits to responses.
func DepositsFromDomain(deposits []*domain.Deposit) []*DepositResponse {
	result := make([]*DepositResponse, len(deposits))
	for i, d := range deposits {
		result[i] = DepositFromDomain(d)
	}
	return result
}

// VerifyResponse is returned by deposit verification.
type VerifyResponse struct {
	Deposit       *DepositResponse `json:"deposit"`
	WalletBalance decimal.Decimal  `json:"wallet_balance"`
}

// VerifyFromResult converts a verification result to a response.
func VerifyFromResult(res *usecase.VerifyResult) *VerifyResponse {
	return &VerifyResponse{
		Deposit:       DepositFromDomain(res.Deposit),
		WalletBalance: res.WalletBalance,
	}
}

// ProofResponse carries the reference of a stored proof of payment.
type ProofResponse struct {
	ProofRef string `json:"proof_ref"`
}

// WalletResponse represents a member's wallet balance.
type WalletResponse struct {
	MemberID  string          `json:"member_id"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		MemberID:  w.MemberID,
		Balance:   w.Balance,
		UpdatedAt: w.UpdatedAt,
	}
}

// WalletEntryResponse represents one wallet credit.
type WalletEntryResponse struct {
	ID              string          `json:"id"`
	MemberID        string          `json:"member_id"`
	DepositID       string          `json:"deposit_id"`
	Amount          decimal.Decimal `json:"amount"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreatedAt       time.Time       `json:"created_at"`
}

// WalletEntriesFromDomain converts wallet entries to responses.
func WalletEntriesFromDomain(entries []*domain.WalletEntry) []*WalletEntryResponse {
	result := make([]*WalletEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &WalletEntryResponse{
			ID:              e.ID,
			MemberID:        e.MemberID,
			DepositID:       e.DepositID,
			Amount:          e.Amount,
			PreviousBalance: e.PreviousBalance,
			CurrentBalance:  e.CurrentBalance,
			CreatedAt:       e.CreatedAt,
		}
	}
	return result
}

// CapitalResponse represents a capital obligation in API responses.
type CapitalResponse struct {
	ID        string          `json:"id"`
	MemberID  string          `json:"member_id"`
	Year      int             `json:"year"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CapitalFromDomain converts a domain capital to a response.
func CapitalFromDomain(c *domain.Capital) *CapitalResponse {
	return &CapitalResponse{
		ID:        c.ID,
		MemberID:  c.MemberID,
		Year:      c.Year,
		Amount:    c.Amount,
		Status:    string(c.Status),
		PaidAt:    c.PaidAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CapitalsFromDomain converts domain capitals to responses.
func CapitalsFromDomain(capitals []*domain.Capital) []*CapitalResponse {
	result := make([]*CapitalResponse, len(capitals))
	for i, c := range capitals {
		result[i] = CapitalFromDomain(c)
	}
	return result
}

// CapitalPageResponse is one page of the administrative capital listing.
type CapitalPageResponse struct {
	Items []*CapitalResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// CapitalPageFromDomain converts a capital page to a response.
func CapitalPageFromDomain(p *domain.CapitalPage) *CapitalPageResponse {
	return &CapitalPageResponse{
		Items: CapitalsFromDomain(p.Items),
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}
}

// GenerationReportResponse summarises a bulk generation run.
type GenerationReportResponse struct {
	Year    int             `json:"year"`
	Amount  decimal.Decimal `json:"amount"`
	Created []string        `json:"created"`
	Skipped []string        `json:"skipped"`
}

// GenerationReportFromDomain converts a generation report to a response.
func GenerationReportFromDomain(r *domain.CapitalGenerationReport) *GenerationReportResponse {
	created := r.Created
	if created == nil {
		created = []string{}
	}
	skipped := r.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	return &GenerationReportResponse{
		Year:    r.Year,
		Amount:  r.Amount,
		Created: created,
		Skipped: skipped,
	}
}

// PaidCheckResponse reports whether a member's current-year capital is paid.
type PaidCheckResponse struct {
	Paid    bool             `json:"paid"`
	Capital *CapitalResponse `json:"capital"`
}

// PaidCheckFromDomain converts a paid check to a response.
func PaidCheckFromDomain(p *domain.PaidCheck) *PaidCheckResponse {
	resp := &PaidCheckResponse{Paid: p.Paid}
	if p.Capital != nil {
		resp.Capital = CapitalFromDomain(p.Capital)
	}
	return resp
}

// ReconciliationResultResponse is one member's wallet check.
type ReconciliationResultResponse struct {
	MemberID          string          `json:"member_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
}

// ReconciliationReportResponse is the wallet integrity report.
type ReconciliationReportResponse struct {
	TotalMembers      int                             `json:"total_members"`
	ReconciledMembers int                             `json:"reconciled_members"`
	WalletsConsistent bool                            `json:"wallets_consistent"`
	Discrepancies     []*ReconciliationResultResponse `json:"discrepancies"`
	CheckedAt         time.Time                       `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a reconciliation report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = &ReconciliationResultResponse{
			MemberID:          d.MemberID,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference,
		}
	}
	return &ReconciliationReportResponse{
		TotalMembers:      r.TotalMembers,
		ReconciledMembers: r.ReconciledMembers,
		WalletsConsistent: r.WalletsConsistent,
		Discrepancies:     discrepancies,
		CheckedAt:         r.CheckedAt,
	}
}

// AuditLogResponse represents an audit trail entry in API responses.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogFromDomain converts a domain audit log to a response.
func AuditLogFromDomain(l *domain.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           l.ID,
		UserID:       l.UserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		IPAddress:    l.IPAddress,
		UserAgent:    l.UserAgent,
		RequestID:    l.RequestID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		Status:       l.Status,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}

// AuditLogsFromDomain converts audit logs to responses. The result is never nil.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	out := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		out[i] = AuditLogFromDomain(l)
	}
	return out
}

// OutboxEventResponse represents a recorded domain event in API responses.
type OutboxEventResponse struct {
	ID            string         `json:"id"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	EventType     string         `json:"event_type"`
	Payload       map[string]any `json:"payload"`
	Published     bool           `json:"published"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// HistoryResponse is the audit trail and event log of a single resource.
type HistoryResponse struct {
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Audit        []*AuditLogResponse    `json:"audit"`
	Events       []*OutboxEventResponse `json:"events"`
}

// HistoryFromUseCase converts a resource history to a response.
func HistoryFromUseCase(h *usecase.ResourceHistory) *HistoryResponse {
	events := make([]*OutboxEventResponse, len(h.Events))
	for i, e := range h.Events {
		events[i] = &OutboxEventResponse{
			ID:            e.ID,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			EventType:     e.EventType,
			Payload:       e.Payload,
			Published:     e.Published,
			PublishedAt:   e.PublishedAt,
			CreatedAt:     e.CreatedAt,
		}
	}
	return &HistoryResponse{
		ResourceType: h.ResourceType,
		ResourceID:   h.ResourceID,
		Audit:        AuditLogsFromDomain(h.Audit),
		Events:       events,
	}
}
