package usecase

import (
	"context"

	"github.com/iho/coopledger/internal/domain"
)

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

// MemberDirectory exposes the member identities the financial core depends on.
type MemberDirectory interface {
	ListActiveMembers(ctx context.Context) ([]string, error)
	MemberExists(ctx context.Context, id string) (bool, error)
}

// EventPublisher delivers outbox events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// RegistrationHook is called synchronously once a member has been registered.
type RegistrationHook interface {
	OnMemberRegistered(ctx context.Context, member *domain.Member) (*domain.Capital, error)
}
