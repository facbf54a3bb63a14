package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/auth"
	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

const minPasswordLength = 6

// AuthService coordinates registration, login and tenant user listing.
type AuthService struct {
	users      repository.UserRepository
	tenants    repository.TenantRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TenantRepo   repository.TenantRepository
	TokenManager *auth.TokenManager
	BcryptCost   int
	Logger       *zap.Logger
}

// RegisterInput describes a new account.
type RegisterInput struct {
	TenantID int64
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginResult carries the signed token and its metadata.
type LoginResult struct {
	User        *domain.User
	AccessToken string
	Token       domain.Token
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tenants:    deps.TenantRepo,
		tokenMgr:   deps.TokenManager,
		bcryptCost: deps.BcryptCost,
		logger:     loggerOrNop(deps.Logger),
	}
}

// RegisterUser creates an account in an existing tenant. An empty role
// registers a customer.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := domain.RoleCustomer
	if strings.TrimSpace(input.Role) != "" {
		role = domain.NormalizeRole(input.Role)
	}

	details := map[string]any{}
	if name == "" {
		details["name"] = "must not be blank"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "must be a valid address"
	}
	if len(input.Password) < minPasswordLength {
		details["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	if !role.Valid() {
		details["role"] = "must be one of admin, provider, customer"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration", details)
	}

	if _, err := s.tenants.GetByID(ctx, input.TenantID); err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("tenant", map[string]any{"tenant_id": input.TenantID})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		TenantID:     input.TenantID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.Int64("tenant_id", user.TenantID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	raw, token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, AccessToken: raw, Token: token}, nil
}

// ListUsers returns the users of the actor's tenant.
func (s *AuthService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	users, err := s.users.ListByTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// DefaultUserPassword is the password given to seeded demo users.
const DefaultUserPassword = "changeme123"

// SeedDefaultUsers creates one admin, provider and customer in the actor's
// tenant when their addresses are not yet taken. It returns the users it
// created.
func (s *AuthService) SeedDefaultUsers(ctx context.Context, actor *domain.User, tenantID int64) ([]domain.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can seed users")
	}
	if tenantID != actor.TenantID {
		return nil, apperrors.NewTenantMismatch(actor.TenantID, tenantID)
	}

	var created []domain.User
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleProvider, domain.RoleCustomer} {
		email := fmt.Sprintf("%s+t%d@helpdesk.local", role, tenantID)
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			continue
		} else if !apperrors.IsNoRows(err) {
			return nil, apperrors.MapError(err)
		}
		user, err := s.RegisterUser(ctx, RegisterInput{
			TenantID: tenantID,
			Name:     "Default " + strings.ToUpper(string(role[:1])) + string(role[1:]),
			Email:    email,
			Password: DefaultUserPassword,
			Role:     string(role),
		})
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeConflict) {
				continue
			}
			return nil, err
		}
		created = append(created, *user)
	}
	return created, nil
}
