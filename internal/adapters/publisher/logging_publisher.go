// Package publisher contains EventPublisher adapters for the outbox drain
// loop.
package publisher

import (
	"context"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/platform/logging"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// LoggingPublisher emits outbox messages to the structured log.
// TODO: add an AMQP-backed publisher once the broker topology is settled.
type LoggingPublisher struct{}

// NewLoggingPublisher creates a log-backed publisher.
func NewLoggingPublisher() *LoggingPublisher {
	return &LoggingPublisher{}
}

var _ ports.EventPublisher = (*LoggingPublisher)(nil)

// Publish writes the message to the log and always succeeds.
func (p *LoggingPublisher) Publish(ctx context.Context, ns tenant.Namespace, msg domain.OutboxMessage) error {
	logging.GetLoggerFromCtx(ctx).Info("publishing event",
		"namespace", ns.Schema(),
		"messageID", msg.MessageID,
		"eventType", msg.EventType,
		"occurredAt", msg.OccurredAt,
	)
	return nil
}
