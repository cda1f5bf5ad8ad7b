package services

import (
	"context"

	"github.com/finledger/ledger-core/internal/core/domain"
	"github.com/finledger/ledger-core/internal/core/ports"
	portssvc "github.com/finledger/ledger-core/internal/core/ports/services"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// ReportingService serves the read-only query surface.
type ReportingService struct {
	BaseService
	repo ports.ReportingRepository
}

// NewReportingService creates a ReportingService.
func NewReportingService(repo ports.ReportingRepository) *ReportingService {
	return &ReportingService{repo: repo}
}

var _ portssvc.ReportingSvcFacade = (*ReportingService)(nil)

// TrialBalance returns per-account debit and credit totals. With postedOnly,
// draft entries are excluded; reversed entries and their reversals remain so
// the pairs net to zero in the report.
func (s *ReportingService) TrialBalance(ctx context.Context, ns tenant.Namespace, postedOnly bool) ([]domain.AccountBalance, error) {
	return s.repo.TrialBalance(ctx, ns, postedOnly)
}
