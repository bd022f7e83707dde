package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/coopledger/internal/domain"
	"github.com/iho/coopledger/internal/usecase"
)

// onRollback registers fn to run if tx is a MockTransaction that rolls back.
func onRollback(tx usecase.Transaction, fn func()) {
	if mt, ok := tx.(*MockTransaction); ok {
		mt.OnRollback(fn)
	}
}

// MockMemberRepository is an in-memory implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[string]*domain.Member

	ListActiveMembersFunc func(ctx context.Context) ([]string, error)
	MemberExistsFunc      func(ctx context.Context, id string) (bool, error)
	CreateFunc            func(ctx context.Context, tx usecase.Transaction, member *domain.Member) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Member, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*domain.Member, error)
	ListFunc              func(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error)
	SetActiveFunc         func(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) (*domain.Member, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[string]*domain.Member),
	}
}

// AddMember seeds a member.
func (m *MockMemberRepository) AddMember(member *domain.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *member
	m.members[member.ID] = &cp
}

func (m *MockMemberRepository) ListActiveMembers(ctx context.Context) ([]string, error) {
	if m.ListActiveMembersFunc != nil {
		return m.ListActiveMembersFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.members))
	for id, member := range m.members {
		if member.Active {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MockMemberRepository) MemberExists(ctx context.Context, id string) (bool, error) {
	if m.MemberExistsFunc != nil {
		return m.MemberExistsFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.members[id]
	return ok, nil
}

func (m *MockMemberRepository) Create(ctx context.Context, tx usecase.Transaction, member *domain.Member) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.members {
		if existing.Email == member.Email {
			return domain.ErrDuplicateMember
		}
	}
	cp := *member
	m.members[member.ID] = &cp
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.members, member.ID)
	})
	return nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if member, ok := m.members[id]; ok {
		cp := *member
		return &cp, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members {
		if member.Email == email {
			cp := *member
			return &cp, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]*domain.Member, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Member
	for _, member := range m.members {
		if filter.ActiveOnly && !member.Active {
			continue
		}
		cp := *member
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m *MockMemberRepository) SetActive(ctx context.Context, tx usecase.Transaction, id string, active bool, updatedAt time.Time) (*domain.Member, error) {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tx, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	prev := *member
	member.Active = active
	member.UpdatedAt = updatedAt
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.members[id] = &prev
	})
	cp := *member
	return &cp, nil
}

// MockWalletRepository is an in-memory implementation of WalletRepository.
// Balances live on the members held by the member repository.
type MockWalletRepository struct {
	mu      sync.RWMutex
	members *MockMemberRepository
	entries []*domain.WalletEntry

	CreditBalanceFunc func(ctx context.Context, tx usecase.Transaction, memberID string, amount decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	GetBalanceFunc    func(ctx context.Context, memberID string) (*domain.Wallet, error)
	CreateEntryFunc   func(ctx context.Context, tx usecase.Transaction, entry *domain.WalletEntry) error
	ListEntriesFunc   func(ctx context.Context, memberID string, limit, offset int) ([]*domain.WalletEntry, error)
	SumEntriesFunc    func(ctx context.Context, memberID string) (decimal.Decimal, error)
	TotalsFunc        func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockWalletRepository(members *MockMemberRepository) *MockWalletRepository {
	return &MockWalletRepository{
		members: members,
	}
}

func (m *MockWalletRepository) CreditBalance(ctx context.Context, tx usecase.Transaction, memberID string, amount decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error) {
	if m.CreditBalanceFunc != nil {
		return m.CreditBalanceFunc(ctx, tx, memberID, amount, updatedAt)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	m.members.mu.Lock()
	defer m.members.mu.Unlock()
	member, ok := m.members.members[memberID]
	if !ok {
		return decimal.Zero, domain.ErrMemberNotFound
	}
	member.WalletBalance = member.WalletBalance.Add(amount)
	member.UpdatedAt = updatedAt
	onRollback(tx, func() {
		m.members.mu.Lock()
		defer m.members.mu.Unlock()
		if member, ok := m.members.members[memberID]; ok {
			member.WalletBalance = member.WalletBalance.Sub(amount)
		}
	})
	return member.WalletBalance, nil
}

func (m *MockWalletRepository) GetBalance(ctx context.Context, memberID string) (*domain.Wallet, error) {
	if m.GetBalanceFunc != nil {
		return m.GetBalanceFunc(ctx, memberID)
	}
	member, err := m.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return &domain.Wallet{
		MemberID:  member.ID,
		Balance:   member.WalletBalance,
		UpdatedAt: member.UpdatedAt,
	}, nil
}

func (m *MockWalletRepository) CreateEntry(ctx context.Context, tx usecase.Transaction, entry *domain.WalletEntry) error {
	if m.CreateEntryFunc != nil {
		return m.CreateEntryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.DepositID == entry.DepositID {
			return fmt.Errorf("wallet entry for deposit %s already exists", entry.DepositID)
		}
	}
	cp := *entry
	m.entries = append(m.entries, &cp)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.entries {
			if e.ID == entry.ID {
				m.entries = append(m.entries[:i], m.entries[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockWalletRepository) ListEntries(ctx context.Context, memberID string, limit, offset int) ([]*domain.WalletEntry, error) {
	if m.ListEntriesFunc != nil {
		return m.ListEntriesFunc(ctx, memberID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.WalletEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].MemberID == memberID {
			cp := *m.entries[i]
			result = append(result, &cp)
		}
	}
	return paginate(result, limit, offset), nil
}

func (m *MockWalletRepository) SumEntries(ctx context.Context, memberID string) (decimal.Decimal, error) {
	if m.SumEntriesFunc != nil {
		return m.SumEntriesFunc(ctx, memberID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.MemberID == memberID {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

func (m *MockWalletRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx)
	}
	m.mu.RLock()
	credited := decimal.Zero
	for _, e := range m.entries {
		credited = credited.Add(e.Amount)
	}
	m.mu.RUnlock()

	m.members.mu.RLock()
	defer m.members.mu.RUnlock()
	balances := decimal.Zero
	for _, member := range m.members.members {
		balances = balances.Add(member.WalletBalance)
	}
	return balances, credited, nil
}

// Entries returns every recorded wallet entry.
func (m *MockWalletRepository) Entries() []*domain.WalletEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.WalletEntry(nil), m.entries...)
}

// MockDepositRepository is an in-memory implementation of DepositRepository.
type MockDepositRepository struct {
	mu       sync.RWMutex
	deposits map[string]*domain.Deposit

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, deposit *domain.Deposit) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Deposit, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error)
	TransitionStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, from, to domain.DepositStatus, actor *string, at time.Time) (*domain.Deposit, bool, error)
	DeleteUnverifiedFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, bool, error)
	ListFunc             func(ctx context.Context, filter domain.DepositFilter) ([]*domain.Deposit, error)
}

func NewMockDepositRepository() *MockDepositRepository {
	return &MockDepositRepository{
		deposits: make(map[string]*domain.Deposit),
	}
}

// AddDeposit seeds a deposit.
func (m *MockDepositRepository) AddDeposit(deposit *domain.Deposit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *deposit
	m.deposits[deposit.ID] = &cp
}

// Count returns the number of stored deposits.
func (m *MockDepositRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.deposits)
}

func (m *MockDepositRepository) Create(ctx context.Context, tx usecase.Transaction, deposit *domain.Deposit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, deposit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *deposit
	m.deposits[deposit.ID] = &cp
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.deposits, deposit.ID)
	})
	return nil
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id string) (*domain.Deposit, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if deposit, ok := m.deposits[id]; ok {
		cp := *deposit
		return &cp, nil
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDepositRepository) TransitionStatus(ctx context.Context, tx usecase.Transaction, id string, from, to domain.DepositStatus, actor *string, at time.Time) (*domain.Deposit, bool, error) {
	if m.TransitionStatusFunc != nil {
		return m.TransitionStatusFunc(ctx, tx, id, from, to, actor, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deposit, ok := m.deposits[id]
	if !ok || deposit.Status != from {
		return nil, false, nil
	}
	prev := *deposit
	deposit.Status = to
	deposit.UpdatedAt = at
	if to == domain.DepositStatusVerified {
		verifiedAt := at
		deposit.VerifiedAt = &verifiedAt
		deposit.VerifiedBy = actor
	}
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.deposits[id] = &prev
	})
	cp := *deposit
	return &cp, true, nil
}

func (m *MockDepositRepository) DeleteUnverified(ctx context.Context, tx usecase.Transaction, id string) (*domain.Deposit, bool, error) {
	if m.DeleteUnverifiedFunc != nil {
		return m.DeleteUnverifiedFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deposit, ok := m.deposits[id]
	if !ok || deposit.Status == domain.DepositStatusVerified {
		return nil, false, nil
	}
	delete(m.deposits, id)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.deposits[id] = deposit
	})
	cp := *deposit
	return &cp, true, nil
}

func (m *MockDepositRepository) List(ctx context.Context, filter domain.DepositFilter) ([]*domain.Deposit, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Deposit
	for _, deposit := range m.deposits {
		if filter.MemberID != nil && deposit.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != nil && deposit.Status != *filter.Status {
			continue
		}
		cp := *deposit
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return paginate(result, filter.Limit, filter.Offset), nil
}

// MockCapitalRepository is an in-memory implementation of CapitalRepository
// that enforces the (member, year) uniqueness key.
type MockCapitalRepository struct {
	mu       sync.RWMutex
	capitals map[string]*domain.Capital
	byKey    map[string]string

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) error
	CreateIfAbsentFunc  func(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) (bool, error)
	GetByIDFunc         func(ctx context.Context, id string) (*domain.Capital, error)
	GetByMemberYearFunc func(ctx context.Context, memberID string, year int) (*domain.Capital, error)
	UpdateStatusFunc    func(ctx context.Context, tx usecase.Transaction, id string, status domain.CapitalStatus, paidAt *time.Time, updatedAt time.Time) (*domain.Capital, error)
	DeleteFunc          func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Capital, error)
	ListFunc            func(ctx context.Context, filter domain.CapitalFilter) ([]*domain.Capital, error)
	CountFunc           func(ctx context.Context, filter domain.CapitalFilter) (int64, error)
}

func NewMockCapitalRepository() *MockCapitalRepository {
	return &MockCapitalRepository{
		capitals: make(map[string]*domain.Capital),
		byKey:    make(map[string]string),
	}
}

func capitalKey(memberID string, year int) string {
	return fmt.Sprintf("%s/%d", memberID, year)
}

// AddCapital seeds a capital.
func (m *MockCapitalRepository) AddCapital(capital *domain.Capital) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *capital
	m.capitals[capital.ID] = &cp
	m.byKey[capitalKey(capital.MemberID, capital.Year)] = capital.ID
}

// Len returns the number of stored capitals.
func (m *MockCapitalRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.capitals)
}

func (m *MockCapitalRepository) insert(tx usecase.Transaction, capital *domain.Capital) bool {
	key := capitalKey(capital.MemberID, capital.Year)
	if _, exists := m.byKey[key]; exists {
		return false
	}
	cp := *capital
	m.capitals[capital.ID] = &cp
	m.byKey[key] = capital.ID
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.capitals, capital.ID)
		delete(m.byKey, key)
	})
	return true
}

func (m *MockCapitalRepository) Create(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, capital)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.insert(tx, capital) {
		return domain.ErrDuplicateCapital
	}
	return nil
}

func (m *MockCapitalRepository) CreateIfAbsent(ctx context.Context, tx usecase.Transaction, capital *domain.Capital) (bool, error) {
	if m.CreateIfAbsentFunc != nil {
		return m.CreateIfAbsentFunc(ctx, tx, capital)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(tx, capital), nil
}

func (m *MockCapitalRepository) GetByID(ctx context.Context, id string) (*domain.Capital, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if capital, ok := m.capitals[id]; ok {
		cp := *capital
		return &cp, nil
	}
	return nil, domain.ErrCapitalNotFound
}

func (m *MockCapitalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Capital, error) {
	return m.GetByID(ctx, id)
}

func (m *MockCapitalRepository) GetByMemberYear(ctx context.Context, memberID string, year int) (*domain.Capital, error) {
	if m.GetByMemberYearFunc != nil {
		return m.GetByMemberYearFunc(ctx, memberID, year)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byKey[capitalKey(memberID, year)]; ok {
		cp := *m.capitals[id]
		return &cp, nil
	}
	return nil, domain.ErrCapitalNotFound
}

func (m *MockCapitalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.CapitalStatus, paidAt *time.Time, updatedAt time.Time) (*domain.Capital, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, paidAt, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	capital, ok := m.capitals[id]
	if !ok {
		return nil, domain.ErrCapitalNotFound
	}
	prev := *capital
	capital.Status = status
	capital.PaidAt = paidAt
	capital.UpdatedAt = updatedAt
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.capitals[id] = &prev
	})
	cp := *capital
	return &cp, nil
}

func (m *MockCapitalRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) (*domain.Capital, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	capital, ok := m.capitals[id]
	if !ok {
		return nil, domain.ErrCapitalNotFound
	}
	key := capitalKey(capital.MemberID, capital.Year)
	delete(m.capitals, id)
	delete(m.byKey, key)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.capitals[id] = capital
		m.byKey[key] = id
	})
	cp := *capital
	return &cp, nil
}

func (m *MockCapitalRepository) filter(filter domain.CapitalFilter) []*domain.Capital {
	var result []*domain.Capital
	for _, capital := range m.capitals {
		if filter.Year != nil && capital.Year != *filter.Year {
			continue
		}
		if filter.MemberID != nil && capital.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != nil && capital.Status != *filter.Status {
			continue
		}
		cp := *capital
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].MemberID < result[j].MemberID
	})
	return result
}

func (m *MockCapitalRepository) List(ctx context.Context, filter domain.CapitalFilter) ([]*domain.Capital, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.filter(filter), filter.Limit, filter.Offset), nil
}

func (m *MockCapitalRepository) Count(ctx context.Context, filter domain.CapitalFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.filter(filter))), nil
}

// MockOutboxRepository is an in-memory implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.events {
			if e == event {
				m.events = append(m.events[:i], m.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			result = append(result, e)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			result = append(result, e)
		}
	}
	return paginate(result, limit, offset), nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// EventTypes returns the types of all stored events in insertion order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockAuditRepository is an in-memory implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	onRollback(tx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, l := range m.logs {
			if l == log {
				m.logs = append(m.logs[:i], m.logs[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		if filter.StartDate != nil && l.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && !l.CreatedAt.Before(*filter.EndDate) {
			continue
		}
		result = append(result, l)
	}
	return paginate(result, filter.Limit, filter.Offset), nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			result = append(result, l)
		}
	}
	return result, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	begun int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	m.begun++
	m.mu.Unlock()
	return &MockTransaction{}, nil
}

// Begun returns how many transactions were started.
func (m *MockTransactionManager) Begun() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.begun
}

// MockTransaction is a mock implementation of Transaction. Effects registered
// through OnRollback are undone in reverse order unless the transaction commits.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu        sync.Mutex
	undo      []func()
	committed bool
	finished  bool
}

// OnRollback registers fn to run on rollback.
func (m *MockTransaction) OnRollback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo = append(m.undo, fn)
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = true
	m.finished = true
	m.undo = nil
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		if err := m.RollbackFunc(ctx); err != nil {
			return err
		}
	}
	m.mu.Lock()
	if m.finished {
		m.mu.Unlock()
		return nil
	}
	undo := m.undo
	m.undo = nil
	m.finished = true
	m.mu.Unlock()

	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
	return nil
}

// Committed reports whether Commit succeeded.
func (m *MockTransaction) Committed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%04d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Get returns the stored value for key.
func (m *MockIdempotencyStore) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
