package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sla/internal/api/dto"
	"github.com/spec-kit/helpdesk-sla/internal/service"
)

// TenantsHandler exposes tenant endpoints.
type TenantsHandler struct {
	tenants *service.TenantService
}

// NewTenantsHandler constructs handler.
func NewTenantsHandler(tenantService *service.TenantService) *TenantsHandler {
	return &TenantsHandler{tenants: tenantService}
}

// CreateTenant POST /tenants.
func (h *TenantsHandler) CreateTenant(c *fiber.Ctx) error {
	var req dto.CreateTenantRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tenant, err := h.tenants.CreateTenant(c.UserContext(), req.Name, req.Domain)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTenantResponse(tenant)})
}

// GetTenant GET /tenants/:id.
func (h *TenantsHandler) GetTenant(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	tenant, err := h.tenants.GetTenant(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTenantResponse(tenant)})
}
