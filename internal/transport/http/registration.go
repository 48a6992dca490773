// internal/transport/http/registration.go
package http

import (
	"errors"
	"log"

	"church-community-service/internal/service"
	"church-community-service/pkg/models"

	"github.com/gofiber/fiber/v2"
)

// Register is the public registration endpoint. It is safe to retry:
// a replay of an already-registered identity returns 200 with
// duplicated=true instead of creating a second record.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	result, err := h.communityService.RegisterMember(c.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"issues": verr.Issues,
			})
		}
		log.Printf("❌ Register failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed"})
	}

	if result.Duplicated {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":        true,
			"message":        "membro já cadastrado",
			"memberId":       result.MemberID,
			"duplicated":     true,
			"updated_fields": result.UpdatedFields,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "membro cadastrado com sucesso",
		"memberId":   result.MemberID,
		"duplicated": false,
	})
}
