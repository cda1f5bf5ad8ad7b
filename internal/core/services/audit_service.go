package services

import (
	"context"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	portssvc "github.com/finledger/ledger-core/internal/core/ports/services"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// AuditService exposes the audit trail for inspection.
type AuditService struct {
	BaseService
	repo ports.AuditReader
}

// NewAuditService creates an AuditService.
func NewAuditService(repo ports.AuditReader) *AuditService {
	return &AuditService{repo: repo}
}

var _ portssvc.AuditSvcFacade = (*AuditService)(nil)

// ListAuditLogs returns the most recent audit rows, newest first.
func (s *AuditService) ListAuditLogs(ctx context.Context, ns tenant.Namespace, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, ns, limit)
}
