package domain

import "time"

// Event types
const (
	EventTypeDepositCreated       = "deposit.created"
	EventTypeDepositVerified      = "deposit.verified"
	EventTypeDepositStatusChanged = "deposit.status_changed"
	EventTypeDepositDeleted       = "deposit.deleted"
	EventTypeCapitalCreated       = "capital.created"
	EventTypeCapitalStatusChanged = "capital.status_changed"
	EventTypeCapitalDeleted       = "capital.deleted"
	EventTypeMemberRegistered     = "member.registered"
)

// Aggregate types
const (
	AggregateTypeDeposit = "deposit"
	AggregateTypeCapital = "capital"
	AggregateTypeMember  = "member"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// DepositCreatedEvent payload
type DepositCreatedEvent struct {
	DepositID string `json:"deposit_id"`
	MemberID  string `json:"member_id"`
	Amount    string `json:"amount"`
	EventAt   string `json:"event_at"`
}

// DepositVerifiedEvent payload
type DepositVerifiedEvent struct {
	DepositID     string `json:"deposit_id"`
	MemberID      string `json:"member_id"`
	Amount        string `json:"amount"`
	WalletBalance string `json:"wallet_balance"`
	VerifiedBy    string `json:"verified_by,omitempty"`
}

// DepositStatusChangedEvent payload
type DepositStatusChangedEvent struct {
	DepositID string `json:"deposit_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// DepositDeletedEvent payload
type DepositDeletedEvent struct {
	DepositID string `json:"deposit_id"`
	MemberID  string `json:"member_id"`
	Status    string `json:"status"`
}

// CapitalCreatedEvent payload
type CapitalCreatedEvent struct {
	CapitalID string `json:"capital_id"`
	MemberID  string `json:"member_id"`
	Year      int    `json:"year"`
	Amount    string `json:"amount"`
	Source    string `json:"source"`
}

// CapitalStatusChangedEvent payload
type CapitalStatusChangedEvent struct {
	CapitalID string `json:"capital_id"`
	MemberID  string `json:"member_id"`
	Year      int    `json:"year"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// CapitalDeletedEvent payload
type CapitalDeletedEvent struct {
	CapitalID string `json:"capital_id"`
	MemberID  string `json:"member_id"`
	Year      int    `json:"year"`
	Status    string `json:"status"`
}

// MemberRegisteredEvent payload
type MemberRegisteredEvent struct {
	MemberID string `json:"member_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
