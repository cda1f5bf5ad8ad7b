package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/services"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

const testBatchSize = 20

type OutboxProcessorTestSuite struct {
	suite.Suite
	outbox    *MockOutboxRepository
	tenants   *MockTenantRepository
	publisher *MockEventPublisher
	processor *services.OutboxProcessor
	ctx       context.Context
}

func (s *OutboxProcessorTestSuite) SetupTest() {
	s.outbox = new(MockOutboxRepository)
	s.tenants = new(MockTenantRepository)
	s.publisher = new(MockEventPublisher)
	s.processor = services.NewOutboxProcessor(s.outbox, s.tenants, s.publisher, testBatchSize, time.Second)
	s.ctx = context.Background()
}

func TestOutboxProcessorTestSuite(t *testing.T) {
	suite.Run(t, new(OutboxProcessorTestSuite))
}

func msg(id string) domain.OutboxMessage {
	return domain.OutboxMessage{
		MessageID:  id,
		EventType:  "JournalEntryPosted",
		Content:    `{"entryID":"e-1"}`,
		OccurredAt: time.Now().UTC(),
	}
}

func (s *OutboxProcessorTestSuite) TestDrainOnce_PublishesAndMarksProcessed() {
	acme := tenant.Namespace("acme")
	s.tenants.On("ListTenants", mock.Anything).Return([]tenant.Namespace{acme}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, tenant.Public, testBatchSize).
		Return([]domain.OutboxMessage{}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, acme, testBatchSize).
		Return([]domain.OutboxMessage{msg("m-1"), msg("m-2")}, nil)
	s.publisher.On("Publish", mock.Anything, acme, mock.Anything).Return(nil)
	s.outbox.On("MarkProcessed", mock.Anything, acme, "m-1").Return(nil)
	s.outbox.On("MarkProcessed", mock.Anything, acme, "m-2").Return(nil)

	s.processor.DrainOnce(s.ctx)

	s.outbox.AssertExpectations(s.T())
	s.publisher.AssertNumberOfCalls(s.T(), "Publish", 2)
}

func (s *OutboxProcessorTestSuite) TestDrainOnce_PublishFailureMarksFailedAndContinues() {
	acme := tenant.Namespace("acme")
	s.tenants.On("ListTenants", mock.Anything).Return([]tenant.Namespace{acme}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, tenant.Public, testBatchSize).
		Return([]domain.OutboxMessage{}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, acme, testBatchSize).
		Return([]domain.OutboxMessage{msg("m-1"), msg("m-2")}, nil)

	s.publisher.On("Publish", mock.Anything, acme, mock.MatchedBy(func(m domain.OutboxMessage) bool {
		return m.MessageID == "m-1"
	})).Return(errors.New("broker unavailable"))
	s.publisher.On("Publish", mock.Anything, acme, mock.MatchedBy(func(m domain.OutboxMessage) bool {
		return m.MessageID == "m-2"
	})).Return(nil)

	s.outbox.On("MarkFailed", mock.Anything, acme, "m-1", "broker unavailable").Return(nil)
	s.outbox.On("MarkProcessed", mock.Anything, acme, "m-2").Return(nil)

	s.processor.DrainOnce(s.ctx)

	s.outbox.AssertExpectations(s.T())
	s.outbox.AssertNotCalled(s.T(), "MarkProcessed", mock.Anything, acme, "m-1")
}

func (s *OutboxProcessorTestSuite) TestDrainOnce_TenantListFailureStillDrainsShared() {
	s.tenants.On("ListTenants", mock.Anything).Return(nil, errors.New("registry unavailable"))
	s.outbox.On("FetchUnprocessed", mock.Anything, tenant.Public, testBatchSize).
		Return([]domain.OutboxMessage{msg("m-1")}, nil)
	s.publisher.On("Publish", mock.Anything, tenant.Public, mock.Anything).Return(nil)
	s.outbox.On("MarkProcessed", mock.Anything, tenant.Public, "m-1").Return(nil)

	s.processor.DrainOnce(s.ctx)

	s.outbox.AssertExpectations(s.T())
}

func (s *OutboxProcessorTestSuite) TestDrainOnce_FetchFailureSkipsNamespace() {
	acme := tenant.Namespace("acme")
	globex := tenant.Namespace("globex")
	s.tenants.On("ListTenants", mock.Anything).Return([]tenant.Namespace{acme, globex}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, tenant.Public, testBatchSize).
		Return([]domain.OutboxMessage{}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, acme, testBatchSize).
		Return(nil, errors.New("schema gone"))
	s.outbox.On("FetchUnprocessed", mock.Anything, globex, testBatchSize).
		Return([]domain.OutboxMessage{msg("m-9")}, nil)
	s.publisher.On("Publish", mock.Anything, globex, mock.Anything).Return(nil)
	s.outbox.On("MarkProcessed", mock.Anything, globex, "m-9").Return(nil)

	s.processor.DrainOnce(s.ctx)

	s.outbox.AssertExpectations(s.T())
}

func (s *OutboxProcessorTestSuite) TestRun_DrainsImmediatelyOnStart() {
	// Interval far beyond the test deadline: the only way the fetch happens
	// is the startup drain.
	s.processor = services.NewOutboxProcessor(s.outbox, s.tenants, s.publisher, testBatchSize, time.Hour)

	drained := make(chan struct{})
	s.tenants.On("ListTenants", mock.Anything).Return([]tenant.Namespace{}, nil)
	s.outbox.On("FetchUnprocessed", mock.Anything, tenant.Public, testBatchSize).
		Run(func(args mock.Arguments) { close(drained) }).
		Return([]domain.OutboxMessage{}, nil)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.processor.Run(ctx)
		close(done)
	}()

	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		s.T().Fatal("processor did not drain on startup")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.T().Fatal("processor did not stop on context cancellation")
	}
}

func (s *OutboxProcessorTestSuite) TestRun_StopsOnContextCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.processor.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.T().Fatal("processor did not stop on context cancellation")
	}
}
