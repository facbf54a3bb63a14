package service

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// ProviderService maintains the tenant's provider directory. Entries are
// informational; assignment targets provider users, not directory rows.
type ProviderService struct {
	providers repository.ProviderRepository
}

// NewProviderService builds the service.
func NewProviderService(providers repository.ProviderRepository) *ProviderService {
	return &ProviderService{providers: providers}
}

// ProviderInput describes a directory entry.
type ProviderInput struct {
	Name       string
	Department string
	Contact    string
}

// CreateProvider adds an entry to the admin's tenant.
func (s *ProviderService) CreateProvider(ctx context.Context, actor *domain.User, input ProviderInput) (*domain.Provider, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can add providers")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid provider", map[string]any{"name": "must not be blank"})
	}
	provider := &domain.Provider{
		TenantID:   actor.TenantID,
		Name:       name,
		Department: strings.TrimSpace(input.Department),
		Contact:    strings.TrimSpace(input.Contact),
	}
	if err := s.providers.Create(ctx, provider); err != nil {
		return nil, apperrors.MapError(err)
	}
	return provider, nil
}

// ListProviders returns the directory of the caller's tenant.
func (s *ProviderService) ListProviders(ctx context.Context, actor *domain.User) ([]domain.Provider, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsProvider() {
		return nil, apperrors.NewForbidden("customers cannot list providers")
	}
	providers, err := s.providers.ListByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return providers, nil
}
