package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// TenantService manages tenants.
type TenantService struct {
	tenants repository.TenantRepository
}

// NewTenantService builds the service.
func NewTenantService(tenants repository.TenantRepository) *TenantService {
	return &TenantService{tenants: tenants}
}

// CreateTenant registers a tenant. Names and domains are unique.
func (s *TenantService) CreateTenant(ctx context.Context, name, tenantDomain string) (*domain.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid tenant", map[string]any{"name": "must not be blank"})
	}
	tenant := &domain.Tenant{Name: name, Domain: strings.ToLower(strings.TrimSpace(tenantDomain))}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("tenant already exists", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}

// GetTenant fetches a tenant by id.
func (s *TenantService) GetTenant(ctx context.Context, id int64) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return tenant, nil
}
