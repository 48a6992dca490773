// internal/transport/http/events.go
package http

import (
	"errors"
	"log"

	"church-community-service/pkg/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	events, err := h.communityService.ListEvents(c.Context(), limit, offset)
	if err != nil {
		log.Printf("❌ ListEvents failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
	}
	return c.JSON(fiber.Map{"events": events, "count": len(events)})
}

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	event, err := h.communityService.CreateEvent(c.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateEvent failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	event, err := h.communityService.UpdateEvent(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
		}
		log.Printf("❌ UpdateEvent failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(event)
}

func (h *Handler) DeleteEvent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid event id"})
	}

	if err := h.communityService.DeleteEvent(c.Context(), id); err != nil {
		log.Printf("❌ DeleteEvent failed: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

func (h *Handler) ListDevotionals(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	devotionals, err := h.communityService.ListDevotionals(c.Context(), limit, offset)
	if err != nil {
		log.Printf("❌ ListDevotionals failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list devotionals"})
	}
	return c.JSON(fiber.Map{"devotionals": devotionals, "count": len(devotionals)})
}

func (h *Handler) CreateDevotional(c *fiber.Ctx) error {
	var req models.DevotionalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	devotional, err := h.communityService.CreateDevotional(c.Context(), &req)
	if err != nil {
		log.Printf("❌ CreateDevotional failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(devotional)
}

func (h *Handler) DeleteDevotional(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid devotional id"})
	}

	if err := h.communityService.DeleteDevotional(c.Context(), id); err != nil {
		log.Printf("❌ DeleteDevotional failed: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
