// internal/transport/http/handlers.go
package http

import (
	"church-community-service/internal/service"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	communityService *service.CommunityService
}

func NewHandler(communityService *service.CommunityService) *Handler {
	return &Handler{communityService: communityService}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "church-community-service",
	})
}

// parsePagination reads limit/offset query params with sane bounds.
func parsePagination(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
