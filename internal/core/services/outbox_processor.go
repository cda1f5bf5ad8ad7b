package services

import (
	"context"
	"time"

	"github.com/finledger/ledger-core/internal/core/ports"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// OutboxProcessor is the background drain loop of the transactional outbox.
// Each pass walks the shared namespace plus every registered tenant, fetches
// a batch of undelivered messages oldest first, and hands them to the
// publisher. Delivery is at-least-once: a crash between publish and
// MarkProcessed redelivers on the next pass, so consumers must deduplicate by
// message ID.
type OutboxProcessor struct {
	BaseService
	outbox    ports.OutboxRepository
	tenants   ports.TenantRepository
	publisher ports.EventPublisher
	batchSize int
	interval  time.Duration
}

// NewOutboxProcessor creates the drain loop.
func NewOutboxProcessor(outbox ports.OutboxRepository, tenants ports.TenantRepository, publisher ports.EventPublisher, batchSize int, interval time.Duration) *OutboxProcessor {
	return &OutboxProcessor{
		outbox:    outbox,
		tenants:   tenants,
		publisher: publisher,
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run drains the outbox on a fixed interval until the context is canceled.
func (p *OutboxProcessor) Run(ctx context.Context) {
	p.LogInfo(ctx, "outbox processor started", "batchSize", p.batchSize, "interval", p.interval.String())

	// Drain the backlog right away; a restarted worker must not sit out a
	// full poll interval first.
	if ctx.Err() == nil {
		p.DrainOnce(ctx)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.LogInfo(ctx, "outbox processor stopped")
			return
		case <-ticker.C:
			p.DrainOnce(ctx)
		}
	}
}

// DrainOnce runs a single pass over all namespaces. A failure in one
// namespace never stops the others.
func (p *OutboxProcessor) DrainOnce(ctx context.Context) {
	namespaces := []tenant.Namespace{tenant.Public}
	registered, err := p.tenants.ListTenants(ctx)
	if err != nil {
		p.LogError(ctx, "failed to list tenants, draining shared namespace only", "error", err)
	} else {
		for _, ns := range registered {
			if !ns.IsPublic() {
				namespaces = append(namespaces, ns)
			}
		}
	}

	for _, ns := range namespaces {
		if ctx.Err() != nil {
			return
		}
		p.drainNamespace(ctx, ns)
	}
}

func (p *OutboxProcessor) drainNamespace(ctx context.Context, ns tenant.Namespace) {
	messages, err := p.outbox.FetchUnprocessed(ctx, ns, p.batchSize)
	if err != nil {
		p.LogError(ctx, "failed to fetch outbox messages", "namespace", ns.Schema(), "error", err)
		return
	}

	for _, msg := range messages {
		if ctx.Err() != nil {
			return
		}
		if err := p.publisher.Publish(ctx, ns, msg); err != nil {
			p.LogWarn(ctx, "failed to publish outbox message",
				"namespace", ns.Schema(), "messageID", msg.MessageID, "attempt", msg.Attempts+1, "error", err)
			if markErr := p.outbox.MarkFailed(ctx, ns, msg.MessageID, err.Error()); markErr != nil {
				p.LogError(ctx, "failed to record outbox delivery failure",
					"namespace", ns.Schema(), "messageID", msg.MessageID, "error", markErr)
			}
			continue
		}
		if err := p.outbox.MarkProcessed(ctx, ns, msg.MessageID); err != nil {
			p.LogError(ctx, "failed to mark outbox message processed",
				"namespace", ns.Schema(), "messageID", msg.MessageID, "error", err)
		}
	}
}
