package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/finledger/ledger-core/internal/apperrors"
	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/services"
	"github.com/finledger/ledger-core/internal/dto"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

const testLockLease = 10 * time.Second

type AccountServiceTestSuite struct {
	suite.Suite
	reader    *MockAccountReader
	writer    *MockAccountWriter
	locker    *MockLocker
	uow       *fakeUnitOfWork
	txManager *fakeTxManager
	service   *services.AccountService
	ctx       context.Context
	ns        tenant.Namespace
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.reader = new(MockAccountReader)
	s.writer = new(MockAccountWriter)
	s.locker = new(MockLocker)
	s.uow = &fakeUnitOfWork{accounts: s.writer}
	s.txManager = &fakeTxManager{uow: s.uow}
	s.service = services.NewAccountService(s.reader, s.txManager, s.locker, testLockLease)
	s.ctx = context.Background()
	s.ns = tenant.Namespace("acme")
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) grantLock() *MockLease {
	lease := new(MockLease)
	lease.On("Release", mock.Anything).Return(nil)
	s.locker.On("Acquire", mock.Anything, "lock:tenant:acme:account:1000", testLockLease).Return(lease, nil)
	return lease
}

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	lease := s.grantLock()
	s.writer.On("SaveAccount", mock.Anything, s.ns, mock.AnythingOfType("domain.Account")).Return(nil)

	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}
	account, err := s.service.CreateAccount(s.ctx, s.ns, req, "user-1")

	require.NoError(s.T(), err)
	require.NotNil(s.T(), account)
	assert.Equal(s.T(), "1000", account.Code)
	assert.True(s.T(), account.IsActive)

	assert.Equal(s.T(), s.ns, s.txManager.lastNS)
	assert.Equal(s.T(), "user-1", s.txManager.lastUser)
	require.Len(s.T(), s.uow.events, 1)
	created, ok := s.uow.events[0].(domain.AccountCreated)
	require.True(s.T(), ok)
	assert.Equal(s.T(), account.AccountID, created.AccountID)

	s.locker.AssertExpectations(s.T())
	s.writer.AssertExpectations(s.T())
	lease.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_ValidationFailsBeforeLocking() {
	req := dto.CreateAccountRequest{Code: "", Name: "Cash", AccountType: "ASSET"}
	_, err := s.service.CreateAccount(s.ctx, s.ns, req, "user-1")

	require.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, apperrors.ErrValidation))
	s.locker.AssertNotCalled(s.T(), "Acquire", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(s.T(), s.txManager.calls)
}

func (s *AccountServiceTestSuite) TestCreateAccount_LockBusy() {
	s.locker.On("Acquire", mock.Anything, "lock:tenant:acme:account:1000", testLockLease).Return(nil, nil)

	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}
	_, err := s.service.CreateAccount(s.ctx, s.ns, req, "user-1")

	require.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, apperrors.ErrLockBusy))
	assert.Zero(s.T(), s.txManager.calls)
}

func (s *AccountServiceTestSuite) TestCreateAccount_LockCoordinatorFailureRejects() {
	s.locker.On("Acquire", mock.Anything, mock.Anything, testLockLease).Return(nil, errors.New("connection refused"))

	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}
	_, err := s.service.CreateAccount(s.ctx, s.ns, req, "user-1")

	require.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, apperrors.ErrInternal))
	assert.Zero(s.T(), s.txManager.calls)
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateReleasesLock() {
	lease := s.grantLock()
	s.writer.On("SaveAccount", mock.Anything, s.ns, mock.AnythingOfType("domain.Account")).
		Return(apperrors.ErrDuplicate)

	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}
	_, err := s.service.CreateAccount(s.ctx, s.ns, req, "user-1")

	require.Error(s.T(), err)
	assert.True(s.T(), errors.Is(err, apperrors.ErrDuplicate))
	lease.AssertCalled(s.T(), "Release", mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ReleaseSurvivesCallerCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)

	var releaseCtx context.Context
	lease := new(MockLease)
	lease.On("Release", mock.Anything).Run(func(args mock.Arguments) {
		releaseCtx = args.Get(0).(context.Context)
	}).Return(nil)
	s.locker.On("Acquire", mock.Anything, "lock:tenant:acme:account:1000", testLockLease).Return(lease, nil)

	// The caller gives up while the unit of work is still running.
	s.writer.On("SaveAccount", mock.Anything, s.ns, mock.AnythingOfType("domain.Account")).
		Run(func(args mock.Arguments) { cancel() }).
		Return(nil)

	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}
	_, err := s.service.CreateAccount(ctx, s.ns, req, "user-1")
	require.NoError(s.T(), err)

	require.NotNil(s.T(), releaseCtx)
	assert.NoError(s.T(), releaseCtx.Err(), "release must run on a live context after cancellation")
	lease.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestGetAccountByID() {
	account := &domain.Account{AccountID: "acc-1", Code: "1000"}
	s.reader.On("FindAccountByID", mock.Anything, s.ns, "acc-1").Return(account, nil)

	got, err := s.service.GetAccountByID(s.ctx, s.ns, "acc-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), account, got)
}

func (s *AccountServiceTestSuite) TestListAccounts_DefaultsLimit() {
	s.reader.On("ListAccounts", mock.Anything, s.ns, 100, 0).Return([]domain.Account{}, nil)

	_, err := s.service.ListAccounts(s.ctx, s.ns, 0, -5)
	require.NoError(s.T(), err)
	s.reader.AssertExpectations(s.T())
}
