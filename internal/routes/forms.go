package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prokizzle/feeling-mindful-website/internal/betasignup"
	"github.com/prokizzle/feeling-mindful-website/internal/deletion"
)

// RegisterBetaSignupRoutes wires the beta signup endpoints. submit runs in
// front of the create handler only.
func RegisterBetaSignupRoutes(r fiber.Router, h *betasignup.Handler, submit ...fiber.Handler) {
	r.Get("/beta-signups/config/:app", h.Config)
	r.Post("/beta-signups", chain(submit, h.Create)...)
}

// RegisterDeletionRoutes wires the data-deletion endpoint.
func RegisterDeletionRoutes(r fiber.Router, h *deletion.Handler, submit ...fiber.Handler) {
	r.Post("/data-deletion-requests", chain(submit, h.Create)...)
}

func chain(before []fiber.Handler, last fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(before)+1)
	out = append(out, before...)
	return append(out, last)
}
