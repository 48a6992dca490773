// internal/transport/http/members.go
package http

import (
	"errors"
	"log"

	"church-community-service/internal/service"
	"church-community-service/pkg/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (h *Handler) ListMembers(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	members, err := h.communityService.ListMembers(c.Context(), limit, offset, c.Query("status"), c.Query("cell_group"))
	if err != nil {
		log.Printf("❌ ListMembers failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list members"})
	}
	return c.JSON(fiber.Map{"members": members, "count": len(members)})
}

func (h *Handler) GetMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	member, err := h.communityService.GetMember(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Printf("❌ GetMember failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch member"})
	}
	return c.JSON(member)
}

func (h *Handler) CreateMember(c *fiber.Ctx) error {
	var req models.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	member, err := h.communityService.CreateMember(c.Context(), &req)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"issues": verr.Issues,
			})
		}
		log.Printf("❌ CreateMember failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create member"})
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

func (h *Handler) UpdateMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	var req models.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	member, err := h.communityService.UpdateMember(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Printf("❌ UpdateMember failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update member"})
	}
	return c.JSON(member)
}

func (h *Handler) DeleteMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	if err := h.communityService.DeleteMember(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Printf("❌ DeleteMember failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete member"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// RegisterFCMToken stores a device push token for a member and mirrors
// it to the broadcast topics.
func (h *Handler) RegisterFCMToken(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON"})
	}

	if err := h.communityService.RegisterFCMToken(c.Context(), id, req.Token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "registered"})
}

func (h *Handler) UnregisterFCMToken(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	if err := h.communityService.UnregisterFCMToken(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Printf("❌ UnregisterFCMToken failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to unregister token"})
	}
	return c.JSON(fiber.Map{"status": "unregistered"})
}

// UploadMemberPhoto handles a multipart photo upload for a member.
func (h *Handler) UploadMemberPhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid member id"})
	}

	if !h.communityService.StorageConfigured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "photo storage is not configured"})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ [UPLOAD] Failed to open photo %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to read photo"})
	}
	defer file.Close()

	log.Printf("📸 [UPLOAD] Uploading photo %s (%d bytes) for member %s", fileHeader.Filename, fileHeader.Size, id)

	photoURL, err := h.communityService.UploadMemberPhoto(c.Context(), id, file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Printf("❌ [UPLOAD] Photo upload failed for member %s: %v", id, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "uploaded",
		"photo_url": photoURL,
	})
}
