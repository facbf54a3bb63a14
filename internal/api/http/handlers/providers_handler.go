package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-sla/internal/api/dto"
	"github.com/spec-kit/helpdesk-sla/internal/service"
)

// ProvidersHandler exposes the provider directory.
type ProvidersHandler struct {
	providers *service.ProviderService
}

// NewProvidersHandler constructs handler.
func NewProvidersHandler(providerService *service.ProviderService) *ProvidersHandler {
	return &ProvidersHandler{providers: providerService}
}

// CreateProvider POST /providers.
func (h *ProvidersHandler) CreateProvider(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateProviderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	provider, err := h.providers.CreateProvider(c.UserContext(), user, service.ProviderInput{
		Name:       req.Name,
		Department: req.Department,
		Contact:    req.Contact,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewProviderResponse(provider)})
}

// ListProviders GET /providers.
func (h *ProvidersHandler) ListProviders(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	providers, err := h.providers.ListProviders(c.UserContext(), user)
	if err != nil {
		return err
	}
	items := make([]dto.ProviderResponse, 0, len(providers))
	for i := range providers {
		items = append(items, dto.NewProviderResponse(&providers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
