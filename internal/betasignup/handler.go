package betasignup

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/prokizzle/feeling-mindful-website/internal/apps"
	"github.com/prokizzle/feeling-mindful-website/internal/validation"
)

// Handler exposes beta signup HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a beta signup HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createResponse struct {
	ID      string `json:"id"`
	App     string `json:"app"`
	Message string `json:"message"`
}

// Create stores one signup and returns the app's success message.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req Input
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	signup, err := h.service.Submit(c.UserContext(), req)
	switch {
	case errors.Is(err, ErrInvalid):
		return c.Status(http.StatusBadRequest).JSON(validation.NewResponse(err))
	case err != nil:
		return fiber.NewError(http.StatusInternalServerError, FailureMessage)
	}

	cfg, _ := apps.ConfigFor(signup.App)
	return c.Status(http.StatusCreated).JSON(createResponse{
		ID:      signup.ID,
		App:     signup.App,
		Message: cfg.SuccessMessage,
	})
}

// Config returns how the form should be presented for the :app parameter.
func (h *Handler) Config(c *fiber.Ctx) error {
	cfg, ok := apps.ConfigFor(c.Params("app"))
	if !ok {
		return fiber.NewError(http.StatusNotFound, "unknown app")
	}
	return c.JSON(cfg)
}
