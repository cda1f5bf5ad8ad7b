package services

import (
	"context"

	"github.com/finledger/ledger-core/internal/core/ports"
	portssvc "github.com/finledger/ledger-core/internal/core/ports/services"
	"github.com/finledger/ledger-core/internal/platform/tenant"
)

// TenantService resolves tenant identifiers and lazily provisions their
// namespaces on first use.
type TenantService struct {
	BaseService
	repo  ports.TenantRepository
	cache *tenant.MetadataCache
}

// NewTenantService creates a TenantService.
func NewTenantService(repo ports.TenantRepository, cache *tenant.MetadataCache) *TenantService {
	return &TenantService{repo: repo, cache: cache}
}

var _ portssvc.TenantSvcFacade = (*TenantService)(nil)

// ResolveAndProvision maps a raw tenant identifier to its namespace and makes
// sure the namespace's physical structures exist. The shared namespace is
// provisioned by migrations and skipped here. Provisioning is idempotent, so
// the per-process cache is purely a fast path: a cold instance re-runs
// EnsureSchema harmlessly.
func (s *TenantService) ResolveAndProvision(ctx context.Context, rawTenantID string) (tenant.Namespace, error) {
	ns, err := tenant.Resolve(rawTenantID)
	if err != nil {
		return "", err
	}
	if ns.IsPublic() {
		return ns, nil
	}
	if s.cache.IsProvisioned(ns) {
		return ns, nil
	}

	if err := s.repo.EnsureSchema(ctx, ns); err != nil {
		return "", err
	}
	if err := s.repo.RegisterTenant(ctx, ns); err != nil {
		return "", err
	}

	s.cache.MarkProvisioned(ns)
	s.LogInfo(ctx, "tenant namespace provisioned", "namespace", ns.Schema())
	return ns, nil
}

// ListTenants returns all registered namespaces.
func (s *TenantService) ListTenants(ctx context.Context) ([]tenant.Namespace, error) {
	return s.repo.ListTenants(ctx)
}
