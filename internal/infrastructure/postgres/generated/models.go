package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AuditLog struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	IpAddress    string             `json:"ip_address"`
	UserAgent    string             `json:"user_agent"`
	RequestID    string             `json:"request_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Capital struct {
	ID        string             `json:"id"`
	MemberID  string             `json:"member_id"`
	Year      int32              `json:"year"`
	Amount    pgtype.Numeric     `json:"amount"`
	Status    string             `json:"status"`
	PaidAt    pgtype.Timestamptz `json:"paid_at"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Deposit struct {
	ID              string             `json:"id"`
	MemberID        string             `json:"member_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	ProofRef        *string            `json:"proof_ref"`
	Purpose         *string            `json:"purpose"`
	BankRef         *string            `json:"bank_ref"`
	RelatedEntityID *string            `json:"related_entity_id"`
	Status          string             `json:"status"`
	VerifiedAt      pgtype.Timestamptz `json:"verified_at"`
	VerifiedBy      *string            `json:"verified_by"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type Member struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Role          string             `json:"role"`
	Active        bool               `json:"active"`
	WalletBalance pgtype.Numeric     `json:"wallet_balance"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type WalletEntry struct {
	ID              string             `json:"id"`
	MemberID        string             `json:"member_id"`
	DepositID       string             `json:"deposit_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	PreviousBalance pgtype.Numeric     `json:"previous_balance"`
	CurrentBalance  pgtype.Numeric     `json:"current_balance"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}
