package usecase

import (
	"context"

	"github.com/iho/coopledger/internal/domain"
)

// CapitalRegistrationHook ensures a newly registered member has a current-year capital.
type CapitalRegistrationHook struct {
	capitals *CapitalUseCase
}

// NewCapitalRegistrationHook creates a new CapitalRegistrationHook.
func NewCapitalRegistrationHook(capitals *CapitalUseCase) *CapitalRegistrationHook {
	return &CapitalRegistrationHook{capitals: capitals}
}

// OnMemberRegistered implements RegistrationHook.
func (h *CapitalRegistrationHook) OnMemberRegistered(ctx context.Context, member *domain.Member) (*domain.Capital, error) {
	return h.capitals.EnsureCapitalOnRegistration(ctx, member.ID)
}
