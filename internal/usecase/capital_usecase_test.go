package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
	"github.com/iho/coopledger/internal/usecase/mocks"
)

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

type capitalFixture struct {
	members  *mocks.MockMemberRepository
	capitals *mocks.MockCapitalRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	uc       *usecase.CapitalUseCase
}

func newCapitalFixture(t *testing.T, annualAmount decimal.Decimal, memberIDs ...string) *capitalFixture {
	t.Helper()

	members := mocks.NewMockMemberRepository()
	for _, id := range memberIDs {
		members.AddMember(&domain.Member{ID: id, Name: id, Email: id + "@example.com", Role: domain.RoleMember, Active: true})
	}

	f := &capitalFixture{
		members:  members,
		capitals: mocks.NewMockCapitalRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRepository(),
	}
	f.uc = usecase.NewCapitalUseCase(
		mocks.NewMockTransactionManager(),
		f.capitals,
		members,
		f.outbox,
		f.audit,
		mocks.NewMockIDGenerator(),
		nil,
		nil,
		annualAmount,
	).WithClock(func() time.Time { return fixedNow })
	return f
}

func TestCapitalUseCase_EnsureForMemberYear(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")
	ctx := context.Background()

	first, err := f.uc.EnsureForMemberYear(ctx, "m1", 2025, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Equal(t, domain.CapitalStatusPending, first.Status)
	assert.True(t, first.Amount.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, first.PaidAt)

	second, err := f.uc.EnsureForMemberYear(ctx, "m1", 2025, decimal.NewFromInt(999))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Amount.Equal(decimal.NewFromInt(100)), "existing record must not be overwritten")
	assert.Equal(t, 1, f.capitals.Len())
	assert.Equal(t, []string{domain.EventTypeCapitalCreated}, f.outbox.EventTypes())
}

func TestCapitalUseCase_EnsureForMemberYearValidation(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")
	ctx := context.Background()

	tests := []struct {
		name     string
		memberID string
		year     int
		amount   decimal.Decimal
		kind     domain.ErrorKind
	}{
		{name: "non-positive amount", memberID: "m1", year: 2025, amount: decimal.Zero, kind: domain.KindValidation},
		{name: "year out of range", memberID: "m1", year: 42, amount: decimal.NewFromInt(10), kind: domain.KindValidation},
		{name: "empty member", memberID: "", year: 2025, amount: decimal.NewFromInt(10), kind: domain.KindValidation},
		{name: "unknown member", memberID: "ghost", year: 2025, amount: decimal.NewFromInt(10), kind: domain.KindMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.EnsureForMemberYear(ctx, tt.memberID, tt.year, tt.amount)
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}
	assert.Equal(t, 0, f.capitals.Len())
}

func TestCapitalUseCase_ConcurrentEnsureReturnsSameRecord(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")

	const callers = 32
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			capital, err := f.uc.EnsureForMemberYear(context.Background(), "m1", 2025, decimal.NewFromInt(50))
			errs[i] = err
			if capital != nil {
				ids[i] = capital.ID
			}
		}(i)
	}
	close(start)
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, f.capitals.Len())
	assert.Len(t, f.outbox.EventTypes(), 1)
}

func TestCapitalUseCase_EnsureAnnualForAllMembers(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1", "m2", "m3")
	ctx := context.Background()

	f.members.AddMember(&domain.Member{ID: "m4", Name: "gone", Email: "m4@example.com", Role: domain.RoleMember, Active: false})
	f.capitals.AddCapital(&domain.Capital{ID: "cap-existing", MemberID: "m2", Year: 2025, Amount: decimal.NewFromInt(75), Status: domain.CapitalStatusPaid})

	report, err := f.uc.EnsureAnnualForAllMembers(ctx, usecase.GenerateAnnualInput{Year: 2025, AmountPerMember: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m3"}, report.Created)
	assert.Equal(t, []string{"m2"}, report.Skipped)
	assert.Equal(t, 3, f.capitals.Len())

	existing, err := f.uc.GetForMemberYear(ctx, "m2", 2025)
	require.NoError(t, err)
	assert.Equal(t, domain.CapitalStatusPaid, existing.Status)
	assert.True(t, existing.Amount.Equal(decimal.NewFromInt(75)))

	rerun, err := f.uc.EnsureAnnualForAllMembers(ctx, usecase.GenerateAnnualInput{Year: 2025, AmountPerMember: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Empty(t, rerun.Created)
	assert.Len(t, rerun.Skipped, 3)
	assert.Equal(t, 3, f.capitals.Len())
}

func TestCapitalUseCase_EnsureAnnualForAllMembersDefaultsToCurrentYear(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")

	report, err := f.uc.EnsureAnnualForAllMembers(context.Background(), usecase.GenerateAnnualInput{AmountPerMember: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, 2025, report.Year)

	capital, err := f.uc.GetCurrentYearForMember(context.Background(), "m1")
	require.NoError(t, err)
	require.NotNil(t, capital)
	assert.Equal(t, 2025, capital.Year)
}

func TestCapitalUseCase_EnsureAnnualForAllMembersErrors(t *testing.T) {
	t.Run("invalid amount", func(t *testing.T) {
		f := newCapitalFixture(t, decimal.Zero, "m1")
		_, err := f.uc.EnsureAnnualForAllMembers(context.Background(), usecase.GenerateAnnualInput{Year: 2025, AmountPerMember: decimal.NewFromInt(-1)})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		assert.Equal(t, 0, f.capitals.Len())
	})

	t.Run("directory failure", func(t *testing.T) {
		f := newCapitalFixture(t, decimal.Zero)
		f.members.ListActiveMembersFunc = func(ctx context.Context) ([]string, error) {
			return nil, errors.New("directory offline")
		}
		_, err := f.uc.EnsureAnnualForAllMembers(context.Background(), usecase.GenerateAnnualInput{Year: 2025, AmountPerMember: decimal.NewFromInt(10)})
		assert.EqualError(t, err, "directory offline")
	})

	t.Run("partial report on store failure", func(t *testing.T) {
		f := newCapitalFixture(t, decimal.Zero, "m1", "m2")
		f.capitals.CreateIfAbsentFunc = func(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) (bool, error) {
			if capital.MemberID == "m2" {
				return false, errors.New("disk full")
			}
			return true, nil
		}
		report, err := f.uc.EnsureAnnualForAllMembers(context.Background(), usecase.GenerateAnnualInput{Year: 2025, AmountPerMember: decimal.NewFromInt(10)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "m2")
		require.NotNil(t, report)
		assert.Equal(t, []string{"m1"}, report.Created)
	})
}

func TestCapitalUseCase_Create(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")
	ctx := context.Background()

	capital, err := f.uc.Create(ctx, usecase.CreateCapitalInput{MemberID: "m1", Year: 2024, Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, 2024, capital.Year)

	_, err = f.uc.Create(ctx, usecase.CreateCapitalInput{MemberID: "m1", Year: 2024, Amount: decimal.NewFromInt(200)})
	assert.ErrorIs(t, err, domain.ErrDuplicateCapital)
	assert.Equal(t, domain.KindDuplicateCapital, domain.KindOf(err))
	assert.Equal(t, 1, f.capitals.Len())

	_, err = f.uc.Create(ctx, usecase.CreateCapitalInput{MemberID: "ghost", Year: 2024, Amount: decimal.NewFromInt(100)})
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestCapitalUseCase_StatusTransitions(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")
	ctx := context.Background()

	capital, err := f.uc.EnsureForMemberYear(ctx, "m1", 2025, decimal.NewFromInt(100))
	require.NoError(t, err)

	paid, err := f.uc.MarkPaid(ctx, capital.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CapitalStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, fixedNow, *paid.PaidAt)

	again, err := f.uc.MarkPaid(ctx, capital.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CapitalStatusPaid, again.Status)

	reopened, err := f.uc.UpdateStatus(ctx, capital.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.CapitalStatusPending, reopened.Status)
	assert.Nil(t, reopened.PaidAt)

	_, err = f.uc.UpdateStatus(ctx, capital.ID, "WAIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.uc.MarkPaid(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrCapitalNotFound)

	assert.Equal(t, []string{
		domain.EventTypeCapitalCreated,
		domain.EventTypeCapitalStatusChanged,
		domain.EventTypeCapitalStatusChanged,
	}, f.outbox.EventTypes())
}

func TestCapitalUseCase_Delete(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1")
	ctx := context.Background()

	capital, err := f.uc.EnsureForMemberYear(ctx, "m1", 2025, decimal.NewFromInt(100))
	require.NoError(t, err)

	deleted, err := f.uc.Delete(ctx, capital.ID)
	require.NoError(t, err)
	assert.Equal(t, capital.ID, deleted.ID)

	current, err := f.uc.GetForMemberYear(ctx, "m1", 2025)
	require.NoError(t, err)
	assert.Nil(t, current)

	_, err = f.uc.Delete(ctx, capital.ID)
	assert.ErrorIs(t, err, domain.ErrCapitalNotFound)

	recreated, err := f.uc.EnsureForMemberYear(ctx, "m1", 2025, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.NotEqual(t, capital.ID, recreated.ID)
}

func TestCapitalUseCase_IsCurrentYearPaid(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero, "m1", "m2", "m3")
	ctx := context.Background()

	f.capitals.AddCapital(&domain.Capital{ID: "c-paid", MemberID: "m1", Year: 2025, Amount: decimal.NewFromInt(100), Status: domain.CapitalStatusPaid})
	f.capitals.AddCapital(&domain.Capital{ID: "c-pending", MemberID: "m2", Year: 2025, Amount: decimal.NewFromInt(100), Status: domain.CapitalStatusPending})
	f.capitals.AddCapital(&domain.Capital{ID: "c-old", MemberID: "m3", Year: 2024, Amount: decimal.NewFromInt(100), Status: domain.CapitalStatusPaid})

	tests := []struct {
		memberID  string
		paid      bool
		capitalID string
	}{
		{memberID: "m1", paid: true, capitalID: "c-paid"},
		{memberID: "m2", paid: false, capitalID: "c-pending"},
		{memberID: "m3", paid: false},
	}

	for _, tt := range tests {
		t.Run(tt.memberID, func(t *testing.T) {
			check, err := f.uc.IsCurrentYearPaid(ctx, tt.memberID)
			require.NoError(t, err)
			assert.Equal(t, tt.paid, check.Paid)
			if tt.capitalID == "" {
				assert.Nil(t, check.Capital)
				return
			}
			require.NotNil(t, check.Capital)
			assert.Equal(t, tt.capitalID, check.Capital.ID)
		})
	}
}

func TestCapitalUseCase_EnsureWithConfiguredAmount(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newCapitalFixture(t, decimal.Zero, "m1")
		_, err := f.uc.EnsureCurrentYearForMember(context.Background(), "m1")
		assert.ErrorIs(t, err, domain.ErrCapitalAmountNotConfigured)
		assert.Equal(t, 0, f.capitals.Len())
	})

	t.Run("not configured but already present", func(t *testing.T) {
		f := newCapitalFixture(t, decimal.Zero, "m1")
		f.capitals.AddCapital(&domain.Capital{ID: "c1", MemberID: "m1", Year: 2025, Amount: decimal.NewFromInt(10), Status: domain.CapitalStatusPending})
		capital, err := f.uc.EnsureCurrentYearForMember(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "c1", capital.ID)
	})

	t.Run("configured", func(t *testing.T) {
		f := newCapitalFixture(t, decimal.RequireFromString("120.50"), "m1")
		capital, err := f.uc.EnsureCapitalOnRegistration(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, 2025, capital.Year)
		assert.Equal(t, "120.5", capital.Amount.String())
	})
}

func TestCapitalUseCase_ListAll(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		memberID := fmt.Sprintf("m%d", i)
		status := domain.CapitalStatusPending
		if i%2 == 0 {
			status = domain.CapitalStatusPaid
		}
		f.capitals.AddCapital(&domain.Capital{ID: "c25-" + memberID, MemberID: memberID, Year: 2025, Amount: decimal.NewFromInt(100), Status: status})
		f.capitals.AddCapital(&domain.Capital{ID: "c24-" + memberID, MemberID: memberID, Year: 2024, Amount: decimal.NewFromInt(90), Status: domain.CapitalStatusPaid})
	}

	all, err := f.uc.ListAll(ctx, usecase.ListCapitalsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 10, all.Total)
	assert.Len(t, all.Items, 10)
	assert.Equal(t, 2025, all.Items[0].Year)

	year := 2025
	paid := "paid"
	filtered, err := f.uc.ListAll(ctx, usecase.ListCapitalsInput{Year: &year, Status: &paid})
	require.NoError(t, err)
	assert.EqualValues(t, 2, filtered.Total)
	for _, c := range filtered.Items {
		assert.Equal(t, 2025, c.Year)
		assert.Equal(t, domain.CapitalStatusPaid, c.Status)
	}

	member := "m3"
	byMember, err := f.uc.ListAll(ctx, usecase.ListCapitalsInput{MemberID: &member})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byMember.Total)

	page2, err := f.uc.ListAll(ctx, usecase.ListCapitalsInput{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 10, page2.Total)
	assert.Equal(t, 2, page2.Page)
	assert.Len(t, page2.Items, 4)
	assert.Equal(t, "m5", page2.Items[0].MemberID)

	beyond, err := f.uc.ListAll(ctx, usecase.ListCapitalsInput{Page: 9, Limit: 4})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.EqualValues(t, 10, beyond.Total)

	bogus := "LOST"
	_, err = f.uc.ListAll(ctx, usecase.ListCapitalsInput{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCapitalUseCase_ListAllHugePageIsEmpty(t *testing.T) {
	f := newCapitalFixture(t, decimal.Zero)
	f.capitals.AddCapital(&domain.Capital{ID: "c1", MemberID: "m1", Year: 2025, Amount: decimal.NewFromInt(100), Status: domain.CapitalStatusPending})

	var seen domain.CapitalFilter
	f.capitals.ListFunc = func(ctx context.Context, filter domain.CapitalFilter) ([]*domain.Capital, error) {
		seen = filter
		return []*domain.Capital{}, nil
	}

	page, err := f.uc.ListAll(context.Background(), usecase.ListCapitalsInput{Page: 3_000_000, Limit: 1000})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 1, page.Total)
	assert.LessOrEqual(t, seen.Offset, math.MaxInt32)
	assert.GreaterOrEqual(t, int32(seen.Offset), int32(0))
}
