package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-sla/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-sla/internal/auth"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/observability"
	"github.com/spec-kit/helpdesk-sla/internal/persistence"
	"github.com/spec-kit/helpdesk-sla/internal/repository/memory"
	"github.com/spec-kit/helpdesk-sla/internal/service"
)

type testAPI struct {
	t   *testing.T
	app *fiber.App
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewStore()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager("test-secret", 60)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:     store.Users(),
		TenantRepo:   store.Tenants(),
		TokenManager: tokens,
		BcryptCost:   bcrypt.MinCost,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  store.Tickets(),
		HistoryRepo: store.History(),
		Dispatcher:  dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:  store.Tickets(),
		UserRepo:    store.Users(),
		HistoryRepo: store.History(),
		Dispatcher:  dispatcher,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		TicketRepo:  store.Tickets(),
		CommentRepo: store.Comments(),
		Dispatcher:  dispatcher,
	})
	slaService := service.NewSLAService(service.SLADependencies{
		TicketRepo:  store.Tickets(),
		HistoryRepo: store.History(),
		Dispatcher:  dispatcher,
		Metrics:     metrics,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, MiddlewareConfig{})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk-sla", "test", &persistence.Postgres{}, &persistence.Redis{}, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Tenants:        handlers.NewTenantsHandler(service.NewTenantService(store.Tenants())),
		Tickets:        handlers.NewTicketsHandler(ticketService, assignmentService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Providers:      handlers.NewProvidersHandler(service.NewProviderService(store.Providers())),
		SLA:            handlers.NewSLAHandler(slaService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, store.Users()),
	})
	return &testAPI{t: t, app: app}
}

func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 {
		require.NoError(a.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	out, ok := body["data"].(map[string]any)
	require.True(t, ok, "missing data object: %v", body)
	return out
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func (a *testAPI) createTenant(name string) int64 {
	status, body := a.do("POST", "/tenants", "", map[string]any{"name": name})
	require.Equal(a.t, fiber.StatusCreated, status, body)
	return int64(data(a.t, body)["id"].(float64))
}

func (a *testAPI) registerAndLogin(tenantID int64, role, email string) (int64, string) {
	status, body := a.do("POST", "/auth/register", "", map[string]any{
		"tenant_id": tenantID,
		"name":      role + " user",
		"email":     email,
		"password":  "secret-pass",
		"role":      role,
	})
	require.Equal(a.t, fiber.StatusCreated, status, body)
	userID := int64(data(a.t, body)["id"].(float64))

	status, body = a.do("POST", "/auth/login", "", map[string]any{"email": email, "password": "secret-pass"})
	require.Equal(a.t, fiber.StatusOK, status, body)
	authBody := data(a.t, body)["auth"].(map[string]any)
	return userID, authBody["token"].(string)
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	tenantID := api.createTenant("Acme Hospital")
	_, adminToken := api.registerAndLogin(tenantID, "admin", "admin@acme.test")
	providerID, providerToken := api.registerAndLogin(tenantID, "provider", "tech@acme.test")
	_, customerToken := api.registerAndLogin(tenantID, "customer", "nurse@acme.test")

	status, body := api.do("POST", "/tickets", customerToken, map[string]any{
		"tenant_id":   tenantID,
		"title":       "Help",
		"description": "server down in ward 3",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	ticket := data(t, body)
	ticketID := int64(ticket["id"].(float64))
	assert.Equal(t, "critical", ticket["priority"])
	assert.Equal(t, "open", ticket["status"])
	assert.NotNil(t, ticket["sla_due"])
	assert.Equal(t, false, ticket["is_escalated"])

	ticketPath := fmt.Sprintf("/tickets/%d", ticketID)

	status, body = api.do("PUT", ticketPath+"/status", customerToken, map[string]any{"status": "closed"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = api.do("PUT", fmt.Sprintf("%s/assign/%d", ticketPath, providerID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, float64(providerID), data(t, body)["assigned_to_user_id"])

	status, body = api.do("PUT", ticketPath+"/status", providerToken, map[string]any{"status": "resolved"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "resolved", data(t, body)["status"])

	status, body = api.do("POST", ticketPath+"/comments", customerToken, map[string]any{"content": "thanks"})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = api.do("GET", ticketPath+"/history", customerToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	history := body["data"].([]any)
	assert.Len(t, history, 3)

	status, body = api.do("GET", "/tickets/assigned", providerToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["data"].([]any), 1)
}

func TestTicketsAreTenantScoped(t *testing.T) {
	api := newTestAPI(t)
	acme := api.createTenant("Acme")
	globex := api.createTenant("Globex")
	_, acmeCustomer := api.registerAndLogin(acme, "customer", "c@acme.test")
	_, globexAdmin := api.registerAndLogin(globex, "admin", "a@globex.test")

	status, body := api.do("POST", "/tickets/quick", acmeCustomer, map[string]any{"text": "wifi is slow sometimes"})
	require.Equal(t, fiber.StatusCreated, status, body)
	ticketID := int64(data(t, body)["id"].(float64))

	status, body = api.do("GET", fmt.Sprintf("/tickets/%d", ticketID), globexAdmin, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = api.do("GET", "/tickets", globexAdmin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["data"].([]any))

	status, body = api.do("POST", "/tickets", acmeCustomer, map[string]any{
		"tenant_id":   globex,
		"title":       "Help",
		"description": "printer jam",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "TENANT_MISMATCH", errorCode(body))
}

func TestRequestValidationAndAuth(t *testing.T) {
	api := newTestAPI(t)
	tenantID := api.createTenant("Acme")
	_, customerToken := api.registerAndLogin(tenantID, "customer", "c@acme.test")

	status, body := api.do("GET", "/tickets", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, _ = api.do("GET", "/tickets", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = api.do("GET", "/tickets/abc", customerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = api.do("GET", "/tickets?status=escalated", customerToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = api.do("GET", "/tickets/999", customerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = api.do("GET", "/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = api.do("POST", "/auth/login", "", map[string]any{"email": "c@acme.test", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = api.do("POST", "/tenants", "", map[string]any{"name": "Acme"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))
}

func TestSweepEndpointRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	tenantID := api.createTenant("Acme")
	_, adminToken := api.registerAndLogin(tenantID, "admin", "a@acme.test")
	_, customerToken := api.registerAndLogin(tenantID, "customer", "c@acme.test")

	status, body := api.do("POST", "/sla/sweep", customerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = api.do("POST", "/sla/sweep", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, float64(0), data(t, body)["escalated"])
}

func TestSeedDefaultsAndDirectory(t *testing.T) {
	api := newTestAPI(t)
	tenantID := api.createTenant("Acme")
	_, adminToken := api.registerAndLogin(tenantID, "admin", "a@acme.test")

	status, body := api.do("POST", "/users/seed-defaults", adminToken, nil)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Len(t, body["data"].([]any), 3)

	status, body = api.do("POST", "/users/seed-defaults", adminToken, nil)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Empty(t, body["data"].([]any))

	status, body = api.do("GET", "/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 4)

	status, body = api.do("POST", "/providers", adminToken, map[string]any{"name": "Facilities", "department": "Electrical"})
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = api.do("GET", "/providers", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
}

func TestHealthReportsDisabledDependencies(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.do("GET", "/health/ready", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	deps := body["dependencies"].(map[string]any)
	assert.Equal(t, "disabled", deps["postgres"])
	assert.Equal(t, "disabled", deps["redis"])

	status, _ = api.do("GET", "/metrics", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
