package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

var (
	testAdmin  = &domain.User{ID: "admin-1", Role: domain.RoleAdmin}
	testMember = &domain.User{ID: "m1", Role: domain.RoleMember}
)

// withUser attaches user to the request context.
func withUser(r *http.Request, user *domain.User) *http.Request {
	return r.WithContext(domain.ContextWithUser(r.Context(), user))
}

// withParams attaches chi URL parameters to the request.
func withParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type depositServiceStub struct {
	createFn       func(ctx context.Context, input usecase.CreateDepositInput) (*domain.Deposit, error)
	verifyFn       func(ctx context.Context, id string) (*usecase.VerifyResult, error)
	updateStatusFn func(ctx context.Context, id, status string) (*domain.Deposit, error)
	deleteFn       func(ctx context.Context, id string) (*domain.Deposit, error)
	getFn          func(ctx context.Context, id string) (*domain.Deposit, error)
	listFn         func(ctx context.Context, input usecase.ListDepositsInput) ([]*domain.Deposit, error)
}

func (s *depositServiceStub) Create(ctx context.Context, input usecase.CreateDepositInput) (*domain.Deposit, error) {
	return s.createFn(ctx, input)
}

func (s *depositServiceStub) Verify(ctx context.Context, id string) (*usecase.VerifyResult, error) {
	return s.verifyFn(ctx, id)
}

func (s *depositServiceStub) UpdateStatus(ctx context.Context, id, status string) (*domain.Deposit, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *depositServiceStub) Delete(ctx context.Context, id string) (*domain.Deposit, error) {
	return s.deleteFn(ctx, id)
}

func (s *depositServiceStub) Get(ctx context.Context, id string) (*domain.Deposit, error) {
	return s.getFn(ctx, id)
}

func (s *depositServiceStub) List(ctx context.Context, input usecase.ListDepositsInput) ([]*domain.Deposit, error) {
	return s.listFn(ctx, input)
}

type capitalServiceStub struct {
	createFn        func(ctx context.Context, input usecase.CreateCapitalInput) (*domain.Capital, error)
	generateFn      func(ctx context.Context, input usecase.GenerateAnnualInput) (*domain.CapitalGenerationReport, error)
	listFn          func(ctx context.Context, input usecase.ListCapitalsInput) (*domain.CapitalPage, error)
	getFn           func(ctx context.Context, id string) (*domain.Capital, error)
	updateStatusFn  func(ctx context.Context, id, status string) (*domain.Capital, error)
	markPaidFn      func(ctx context.Context, id string) (*domain.Capital, error)
	deleteFn        func(ctx context.Context, id string) (*domain.Capital, error)
	memberYearFn    func(ctx context.Context, memberID string, year int) (*domain.Capital, error)
	currentFn       func(ctx context.Context, memberID string) (*domain.Capital, error)
	ensureCurrentFn func(ctx context.Context, memberID string) (*domain.Capital, error)
	paidFn          func(ctx context.Context, memberID string) (*domain.PaidCheck, error)
}

func (s *capitalServiceStub) Create(ctx context.Context, input usecase.CreateCapitalInput) (*domain.Capital, error) {
	return s.createFn(ctx, input)
}

func (s *capitalServiceStub) EnsureAnnualForAllMembers(ctx context.Context, input usecase.GenerateAnnualInput) (*domain.CapitalGenerationReport, error) {
	return s.generateFn(ctx, input)
}

func (s *capitalServiceStub) ListAll(ctx context.Context, input usecase.ListCapitalsInput) (*domain.CapitalPage, error) {
	return s.listFn(ctx, input)
}

func (s *capitalServiceStub) Get(ctx context.Context, id string) (*domain.Capital, error) {
	return s.getFn(ctx, id)
}

func (s *capitalServiceStub) UpdateStatus(ctx context.Context, id, status string) (*domain.Capital, error) {
	return s.updateStatusFn(ctx, id, status)
}

func (s *capitalServiceStub) MarkPaid(ctx context.Context, id string) (*domain.Capital, error) {
	return s.markPaidFn(ctx, id)
}

func (s *capitalServiceStub) Delete(ctx context.Context, id string) (*domain.Capital, error) {
	return s.deleteFn(ctx, id)
}

func (s *capitalServiceStub) GetForMemberYear(ctx context.Context, memberID string, year int) (*domain.Capital, error) {
	return s.memberYearFn(ctx, memberID, year)
}

func (s *capitalServiceStub) GetCurrentYearForMember(ctx context.Context, memberID string) (*domain.Capital, error) {
	return s.currentFn(ctx, memberID)
}

func (s *capitalServiceStub) EnsureCurrentYearForMember(ctx context.Context, memberID string) (*domain.Capital, error) {
	return s.ensureCurrentFn(ctx, memberID)
}

func (s *capitalServiceStub) IsCurrentYearPaid(ctx context.Context, memberID string) (*domain.PaidCheck, error) {
	return s.paidFn(ctx, memberID)
}
