//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/iho/coopledger/internal/adapter/repository/postgres"
	"github.com/iho/coopledger/internal/domain"
	infrapg "github.com/iho/coopledger/internal/infrastructure/postgres"
	"github.com/iho/coopledger/internal/infrastructure/metrics"
	"github.com/iho/coopledger/internal/usecase"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runWithDatabase(m))
}

func runWithDatabase(m *testing.M) int {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("coopledger"),
		tcpostgres.WithUsername("coop"),
		tcpostgres.WithPassword("coop"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		return 1
	}
	defer func() { _ = container.Terminate(ctx) }()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		return 1
	}

	if err := infrapg.RunMigrations(dsn, migrationsPath(), zerolog.Nop()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		return 1
	}

	testPool, err = infrapg.NewPool(ctx, dsn, 20, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		return 1
	}
	defer testPool.Close()

	return m.Run()
}

func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "infrastructure", "postgres", "migrations")
}

type stack struct {
	members  *postgres.MemberRepository
	wallets  *postgres.WalletRepository
	deposits *usecase.DepositUseCase
	capitals *usecase.CapitalUseCase
	registry *usecase.MemberUseCase
	recon    *usecase.ReconciliationUseCase
	history  *usecase.HistoryUseCase
}

func newStack(t *testing.T, annual decimal.Decimal) *stack {
	t.Helper()

	ctx := context.Background()
	_, err := testPool.Exec(ctx, `TRUNCATE TABLE audit_logs, outbox_events, wallet_entries, deposits, capitals, members CASCADE`)
	require.NoError(t, err)

	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	txManager := postgres.NewTxManager(testPool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(zerolog.Nop(), m)

	memberRepo := postgres.NewMemberRepository(testPool)
	walletRepo := postgres.NewWalletRepository(testPool)
	outboxRepo := postgres.NewOutboxRepository(testPool)
	auditRepo := postgres.NewAuditRepository(testPool)

	capitals := usecase.NewCapitalUseCase(txManager, postgres.NewCapitalRepository(testPool), memberRepo,
		outboxRepo, auditRepo, idGen, retrier, m, annual)
	deposits := usecase.NewDepositUseCase(txManager, postgres.NewDepositRepository(testPool), walletRepo, memberRepo,
		outboxRepo, auditRepo, idGen, retrier, m)
	registry := usecase.NewMemberUseCase(txManager, memberRepo, usecase.NewCapitalRegistrationHook(capitals),
		outboxRepo, auditRepo, idGen, m)

	return &stack{
		members:  memberRepo,
		wallets:  walletRepo,
		deposits: deposits,
		capitals: capitals,
		registry: registry,
		recon:    usecase.NewReconciliationUseCase(memberRepo, walletRepo),
		history:  usecase.NewHistoryUseCase(auditRepo, outboxRepo),
	}
}

func (s *stack) register(t *testing.T, name string) *domain.Member {
	t.Helper()

	res, err := s.registry.Register(context.Background(), usecase.RegisterMemberInput{
		Name:  name,
		Email: fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
		Role:  domain.RoleMember,
	})
	require.NoError(t, err)
	return res.Member
}

func TestRegistrationCreatesCurrentYearCapital(t *testing.T) {
	s := newStack(t, decimal.NewFromInt(100))
	ctx := context.Background()

	res, err := s.registry.Register(ctx, usecase.RegisterMemberInput{Name: "Ana", Email: "ana@example.com", Role: domain.RoleMember})
	require.NoError(t, err)
	require.NoError(t, res.HookErr)
	require.NotNil(t, res.Capital)

	assert.Equal(t, s.capitals.CurrentYear(), res.Capital.Year)
	assert.Equal(t, domain.CapitalStatusPending, res.Capital.Status)
	assert.True(t, res.Capital.Amount.Equal(decimal.NewFromInt(100)))

	_, err = s.registry.Register(ctx, usecase.RegisterMemberInput{Name: "Ana", Email: "ana@example.com", Role: domain.RoleMember})
	assert.Equal(t, domain.KindDuplicateMember, domain.KindOf(err))
}

func TestRegistrationWithoutConfiguredAmountKeepsMember(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()

	res, err := s.registry.Register(ctx, usecase.RegisterMemberInput{Name: "Ben", Email: "ben@example.com", Role: domain.RoleMember})
	require.NoError(t, err)
	assert.ErrorIs(t, res.HookErr, domain.ErrCapitalAmountNotConfigured)
	assert.Nil(t, res.Capital)

	stored, err := s.members.GetByID(ctx, res.Member.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestConcurrentVerifyCreditsOnce(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "carla")

	deposit, err := s.deposits.Create(ctx, usecase.CreateDepositInput{MemberID: member.ID, Amount: decimal.RequireFromString("75.25")})
	require.NoError(t, err)

	const workers = 20
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		already   atomic.Int32
	)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_, err := s.deposits.Verify(ctx, deposit.ID)
			switch {
			case err == nil:
				successes.Add(1)
			case domain.KindOf(err) == domain.KindAlreadyVerified:
				already.Add(1)
			default:
				t.Errorf("unexpected verify error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), already.Load())

	wallet, err := s.wallets.GetBalance(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("75.25")), "balance %s", wallet.Balance)

	entries, err := s.wallets.ListEntries(ctx, member.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConcurrentDepositVerificationsAccumulate(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "dario")

	const count = 25
	ids := make([]string, 0, count)
	for range count {
		d, err := s.deposits.Create(ctx, usecase.CreateDepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
		ids = append(ids, d.ID)
	}

	var wg sync.WaitGroup
	wg.Add(len(ids))
	for _, id := range ids {
		go func() {
			defer wg.Done()
			if _, err := s.deposits.Verify(ctx, id); err != nil {
				t.Errorf("verify %s: %v", id, err)
			}
		}()
	}
	wg.Wait()

	wallet, err := s.wallets.GetBalance(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(250)), "balance %s", wallet.Balance)

	report, err := s.recon.GenerateReconciliationReport(ctx)
	require.NoError(t, err)
	assert.True(t, report.WalletsConsistent)
	assert.Empty(t, report.Discrepancies)
}

func TestVerifiedDepositIsLocked(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "eva")

	deposit, err := s.deposits.Create(ctx, usecase.CreateDepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)
	_, err = s.deposits.Verify(ctx, deposit.ID)
	require.NoError(t, err)

	_, err = s.deposits.Delete(ctx, deposit.ID)
	assert.Equal(t, domain.KindInvalidStatus, domain.KindOf(err))

	_, err = s.deposits.UpdateStatus(ctx, deposit.ID, "REJECTED")
	assert.Equal(t, domain.KindInvalidStatus, domain.KindOf(err))

	stored, err := s.deposits.Get(ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusVerified, stored.Status)

	wallet, err := s.wallets.GetBalance(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(decimal.NewFromInt(40)))
}

func TestPendingDepositDeleteAndReject(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "fran")

	first, err := s.deposits.Create(ctx, usecase.CreateDepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	second, err := s.deposits.Create(ctx, usecase.CreateDepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(6)})
	require.NoError(t, err)

	_, err = s.deposits.Delete(ctx, first.ID)
	require.NoError(t, err)
	_, err = s.deposits.Get(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrDepositNotFound)

	rejected, err := s.deposits.UpdateStatus(ctx, second.ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusRejected, rejected.Status)

	wallet, err := s.wallets.GetBalance(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero())
}

func TestDeletedDepositHistory(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "gil")

	deposit, err := s.deposits.Create(ctx, usecase.CreateDepositInput{MemberID: member.ID, Amount: decimal.NewFromInt(9)})
	require.NoError(t, err)
	_, err = s.deposits.Delete(ctx, deposit.ID)
	require.NoError(t, err)

	history, err := s.history.DepositHistory(ctx, deposit.ID)
	require.NoError(t, err)
	require.Len(t, history.Audit, 2)
	assert.Equal(t, string(domain.AuditActionDepositDelete), history.Audit[0].Action, "newest entry first")
	assert.Equal(t, string(domain.AuditActionDepositCreate), history.Audit[1].Action)

	eventTypes := make([]string, 0, len(history.Events))
	for _, e := range history.Events {
		assert.Equal(t, deposit.ID, e.AggregateID)
		eventTypes = append(eventTypes, e.EventType)
	}
	assert.ElementsMatch(t, []string{domain.EventTypeDepositCreated, domain.EventTypeDepositDeleted}, eventTypes)

	logs, err := s.history.ListAudit(ctx, usecase.ListAuditInput{ResourceType: domain.ResourceTypeMember, ResourceID: member.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, string(domain.AuditActionMemberRegister), logs[0].Action)
}

func TestConcurrentEnsureCreatesSingleCapital(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "gil")

	const workers = 16
	ids := make([]string, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			c, err := s.capitals.EnsureForMemberYear(ctx, member.ID, 2031, decimal.NewFromInt(200))
			if err != nil {
				t.Errorf("ensure: %v", err)
				return
			}
			ids[i] = c.ID
		}()
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}

	year := 2031
	page, err := s.capitals.ListAll(ctx, usecase.ListCapitalsInput{Year: &year})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestAnnualGenerationIsIdempotent(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()

	a := s.register(t, "hana")
	b := s.register(t, "ivo")
	inactive := s.register(t, "jon")
	_, err := s.registry.Deactivate(ctx, inactive.ID)
	require.NoError(t, err)

	_, err = s.capitals.Create(ctx, usecase.CreateCapitalInput{MemberID: a.ID, Year: 2030, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	first, err := s.capitals.EnsureAnnualForAllMembers(ctx, usecase.GenerateAnnualInput{Year: 2030, AmountPerMember: decimal.NewFromInt(120)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{b.ID}, first.Created)
	assert.ElementsMatch(t, []string{a.ID}, first.Skipped)

	second, err := s.capitals.EnsureAnnualForAllMembers(ctx, usecase.GenerateAnnualInput{Year: 2030, AmountPerMember: decimal.NewFromInt(120)})
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, second.Skipped)

	existing, err := s.capitals.GetForMemberYear(ctx, a.ID, 2030)
	require.NoError(t, err)
	assert.True(t, existing.Amount.Equal(decimal.NewFromInt(50)), "existing amount must not be overwritten")

	_, err = s.capitals.GetForMemberYear(ctx, inactive.ID, 2030)
	assert.ErrorIs(t, err, domain.ErrCapitalNotFound)
}

func TestCapitalLifecycle(t *testing.T) {
	s := newStack(t, decimal.Zero)
	ctx := context.Background()
	member := s.register(t, "kai")

	created, err := s.capitals.Create(ctx, usecase.CreateCapitalInput{MemberID: member.ID, Year: 2029, Amount: decimal.NewFromInt(80)})
	require.NoError(t, err)

	_, err = s.capitals.Create(ctx, usecase.CreateCapitalInput{MemberID: member.ID, Year: 2029, Amount: decimal.NewFromInt(80)})
	assert.Equal(t, domain.KindDuplicateCapital, domain.KindOf(err))

	paid, err := s.capitals.MarkPaid(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CapitalStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	reverted, err := s.capitals.UpdateStatus(ctx, created.ID, "PENDING")
	require.NoError(t, err)
	assert.Nil(t, reverted.PaidAt)

	_, err = s.capitals.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = s.capitals.Get(ctx, created.ID)
	assert.True(t, errors.Is(err, domain.ErrCapitalNotFound))
}
