package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

type MockAccountReader struct {
	mock.Mock
}

func (m *MockAccountReader) FindAccountByID(ctx context.Context, ns tenant.Namespace, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, ns, accountID)
	acc, _ := args.Get(0).(*domain.Account)
	return acc, args.Error(1)
}

func (m *MockAccountReader) FindAccountByCode(ctx context.Context, ns tenant.Namespace, code string) (*domain.Account, error) {
	args := m.Called(ctx, ns, code)
	acc, _ := args.Get(0).(*domain.Account)
	return acc, args.Error(1)
}

func (m *MockAccountReader) FindAccountsByIDs(ctx context.Context, ns tenant.Namespace, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, ns, accountIDs)
	accs, _ := args.Get(0).(map[string]domain.Account)
	return accs, args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, ns tenant.Namespace, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, ns, limit, offset)
	accs, _ := args.Get(0).([]domain.Account)
	return accs, args.Error(1)
}

type MockEntryReader struct {
	mock.Mock
}

func (m *MockEntryReader) FindEntryByID(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ns, entryID)
	entry, _ := args.Get(0).(*domain.JournalEntry)
	return entry, args.Error(1)
}

type MockAccountWriter struct {
	mock.Mock
}

func (m *MockAccountWriter) SaveAccount(ctx context.Context, ns tenant.Namespace, account domain.Account) error {
	args := m.Called(ctx, ns, account)
	return args.Error(0)
}

type MockEntryWriter struct {
	mock.Mock
}

func (m *MockEntryWriter) SaveEntry(ctx context.Context, ns tenant.Namespace, entry domain.JournalEntry) error {
	args := m.Called(ctx, ns, entry)
	return args.Error(0)
}

func (m *MockEntryWriter) FindEntryByIDForUpdate(ctx context.Context, ns tenant.Namespace, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, ns, entryID)
	entry, _ := args.Get(0).(*domain.JournalEntry)
	return entry, args.Error(1)
}

func (m *MockEntryWriter) UpdateEntryStatus(ctx context.Context, ns tenant.Namespace, entry domain.JournalEntry) error {
	args := m.Called(ctx, ns, entry)
	return args.Error(0)
}

// fakeUnitOfWork wires the writer mocks together and captures recorded
// events.
type fakeUnitOfWork struct {
	accounts ports.AccountWriter
	entries  ports.EntryWriter
	events   []domain.Event
}

func (u *fakeUnitOfWork) Accounts() ports.AccountWriter { return u.accounts }
func (u *fakeUnitOfWork) Entries() ports.EntryWriter    { return u.entries }
func (u *fakeUnitOfWork) RecordEvent(event domain.Event) {
	u.events = append(u.events, event)
}

// fakeTxManager runs the unit of work inline, recording the namespace and
// acting user it was invoked with.
type fakeTxManager struct {
	uow      *fakeUnitOfWork
	beginErr error
	lastNS   tenant.Namespace
	lastUser string
	calls    int
}

func (m *fakeTxManager) WithinTx(ctx context.Context, ns tenant.Namespace, userID string, fn func(uow ports.UnitOfWork) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	m.calls++
	m.lastNS = ns
	m.lastUser = userID
	return fn(m.uow)
}

type MockLease struct {
	mock.Mock
}

func (m *MockLease) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, lease time.Duration) (ports.Lease, error) {
	args := m.Called(ctx, key, lease)
	l, _ := args.Get(0).(ports.Lease)
	return l, args.Error(1)
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) FetchUnprocessed(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.OutboxMessage, error) {
	args := m.Called(ctx, ns, limit)
	msgs, _ := args.Get(0).([]domain.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, ns tenant.Namespace, messageID string) error {
	args := m.Called(ctx, ns, messageID)
	return args.Error(0)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, ns tenant.Namespace, messageID string, deliveryErr string) error {
	args := m.Called(ctx, ns, messageID, deliveryErr)
	return args.Error(0)
}

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) EnsureSchema(ctx context.Context, ns tenant.Namespace) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockTenantRepository) RegisterTenant(ctx context.Context, ns tenant.Namespace) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockTenantRepository) ListTenants(ctx context.Context) ([]tenant.Namespace, error) {
	args := m.Called(ctx)
	nss, _ := args.Get(0).([]tenant.Namespace)
	return nss, args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, ns tenant.Namespace, msg domain.OutboxMessage) error {
	args := m.Called(ctx, ns, msg)
	return args.Error(0)
}
