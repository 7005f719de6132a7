package deletion

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/prokizzle/feeling-mindful-website/internal/validation"
)

// Handler exposes the deletion request endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds a deletion HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Create stores one deletion request.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	req, err := h.service.Submit(c.UserContext(), in)
	if errors.Is(err, ErrInvalid) {
		return c.Status(http.StatusBadRequest).JSON(validation.NewResponse(err))
	}
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, FailureMessage)
	}

	return c.Status(http.StatusCreated).JSON(createResponse{
		ID:      req.ID,
		Status:  req.Status,
		Message: SuccessMessage(req.Email),
	})
}
