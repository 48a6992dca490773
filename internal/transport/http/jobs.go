// internal/transport/http/jobs.go
package http

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// TriggerBirthdayDigest runs the birthday digest on demand, outside the
// daily schedule. The run itself never fails the request: per-channel
// outcomes land in the job run log.
func (h *Handler) TriggerBirthdayDigest(c *fiber.Ctx) error {
	log.Printf("🎂 [JOBS] Manual birthday digest trigger from %s", c.IP())
	if err := h.communityService.RunBirthdayDigest(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "digest run failed"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "completed"})
}

func (h *Handler) TriggerEventCleanup(c *fiber.Ctx) error {
	log.Printf("🧹 [JOBS] Manual event cleanup trigger from %s", c.IP())
	if err := h.communityService.RunEventCleanup(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "cleanup run failed"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "completed"})
}

func (h *Handler) TriggerTopicResync(c *fiber.Ctx) error {
	log.Printf("🔄 [JOBS] Manual topic resync trigger from %s", c.IP())
	if err := h.communityService.RunTopicResync(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "resync run failed"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "completed"})
}

// ListJobRuns exposes the audit trail, newest first. Optional ?job=
// filter narrows to one job name.
func (h *Handler) ListJobRuns(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	runs, err := h.communityService.ListJobRuns(c.Context(), limit, offset, c.Query("job"))
	if err != nil {
		log.Printf("❌ ListJobRuns failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list job runs"})
	}
	return c.JSON(fiber.Map{"runs": runs, "count": len(runs)})
}
