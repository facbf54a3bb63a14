package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

// ProviderRepository manages the provider directory.
type ProviderRepository interface {
	Create(ctx context.Context, provider *domain.Provider) error
	ListByTenant(ctx context.Context, tenantID int64) ([]domain.Provider, error)
}

type providerRepository struct {
	pool *pgxpool.Pool
}

// NewProviderRepository builds the repository.
func NewProviderRepository(pool *pgxpool.Pool) ProviderRepository {
	return &providerRepository{pool: pool}
}

func (r *providerRepository) Create(ctx context.Context, provider *domain.Provider) error {
	const query = `
        INSERT INTO providers (tenant_id, name, department, contact)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		provider.TenantID,
		provider.Name,
		provider.Department,
		provider.Contact,
	).Scan(&provider.ID, &provider.CreatedAt)
}

func (r *providerRepository) ListByTenant(ctx context.Context, tenantID int64) ([]domain.Provider, error) {
	const query = `
        SELECT id, tenant_id, name, COALESCE(department, ''), COALESCE(contact, ''), created_at
        FROM providers WHERE tenant_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Provider
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Department, &p.Contact, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
