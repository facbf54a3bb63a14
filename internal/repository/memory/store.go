// Package memory implements the repositories in process memory. It backs the
// service when no Postgres DSN is configured and in tests.
//
// A single mutex guards every table, which gives each repository call the
// same all-or-nothing behaviour the Postgres implementation gets from its
// transactions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// Store holds all tables.
type Store struct {
	mu       sync.Mutex
	seq      int64
	tenants  map[int64]domain.Tenant
	users    map[int64]domain.User
	tickets  map[int64]domain.Ticket
	comments map[int64]domain.TicketComment
	provs    map[int64]domain.Provider
	history  map[int64]domain.TicketHistory
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		tenants:  make(map[int64]domain.Tenant),
		users:    make(map[int64]domain.User),
		tickets:  make(map[int64]domain.Ticket),
		comments: make(map[int64]domain.TicketComment),
		provs:    make(map[int64]domain.Provider),
		history:  make(map[int64]domain.TicketHistory),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the clock used for created_at defaults.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Tenants() repository.TenantRepository { return tenantRepo{s} }
func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Tickets() repository.TicketRepository { return ticketRepo{s} }
func (s *Store) Comments() repository.TicketCommentRepository { return commentRepo{s} }
func (s *Store) Providers() repository.ProviderRepository { return providerRepo{s} }
func (s *Store) History() repository.TicketHistoryRepository { return historyRepo{s} }

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

type tenantRepo struct{ s *Store }

func (r tenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.tenants {
		if strings.EqualFold(existing.Name, tenant.Name) || (tenant.Domain != "" && strings.EqualFold(existing.Domain, tenant.Domain)) {
			return repository.ErrDuplicate
		}
	}
	tenant.ID = r.s.nextID()
	tenant.CreatedAt = r.s.now()
	r.s.tenants[tenant.ID] = *tenant
	return nil
}

func (r tenantRepo) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tenant, ok := r.s.tenants[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &tenant, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.s.nextID()
	user.CreatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r userRepo) ListByTenant(_ context.Context, tenantID int64) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.User
	for _, user := range r.s.users {
		if user.TenantID == tenantID {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type providerRepo struct{ s *Store }

func (r providerRepo) Create(_ context.Context, provider *domain.Provider) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	provider.ID = r.s.nextID()
	provider.CreatedAt = r.s.now()
	r.s.provs[provider.ID] = *provider
	return nil
}

func (r providerRepo) ListByTenant(_ context.Context, tenantID int64) ([]domain.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Provider
	for _, p := range r.s.provs {
		if p.TenantID == tenantID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, comment *domain.TicketComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[comment.TicketID]; !ok {
		return apperrors.ErrNotFound
	}
	comment.ID = r.s.nextID()
	comment.CreatedAt = r.s.now()
	r.s.comments[comment.ID] = *comment
	return nil
}

func (r commentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.TicketComment
	for _, c := range r.s.comments {
		if c.TicketID == ticketID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.nextID()
	entry.CreatedAt = r.s.now()
	r.s.history[entry.ID] = *entry
	return nil
}

func (r historyRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.TicketHistory
	for _, h := range r.s.history {
		if h.TicketID == ticketID {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
