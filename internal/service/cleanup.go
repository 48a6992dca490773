package service

import (
	"context"
	"log"
	"time"

	"church-community-service/pkg/dates"
	"church-community-service/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// cleanupBatchSize caps each deletion pass to keep one run bounded.
const cleanupBatchSize = 400

// CleanupExpiredEvents deletes events strictly before now's date, in two
// passes, one per date representation (ISO string column, legacy
// timestamp column). Both passes always run; each is independently
// failable and batch-limited. Returns per-pass deletion counts.
func (s *CommunityService) CleanupExpiredEvents(ctx context.Context, now time.Time) (isoDeleted, legacyDeleted int64) {
	today := dates.Midnight(now.In(s.loc))
	isoToday := dates.ISO(today)

	// Pass 1: ISO string dates. Lexicographic compare is date order for
	// YYYY-MM-DD.
	n, err := s.deleteEventBatch(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("date <> '' AND date < ?", isoToday)
	})
	if err != nil {
		log.Printf("❌ [CLEANUP] ISO-date pass failed: %v", err)
	} else {
		isoDeleted = n
	}

	// Pass 2: legacy timestamp dates.
	n, err = s.deleteEventBatch(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("date_at IS NOT NULL AND date_at < ?", today)
	})
	if err != nil {
		log.Printf("❌ [CLEANUP] Legacy-timestamp pass failed: %v", err)
	} else {
		legacyDeleted = n
	}

	return isoDeleted, legacyDeleted
}

// deleteEventBatch selects at most cleanupBatchSize matching ids and
// deletes them, so a single run never exceeds the batch cap.
func (s *CommunityService) deleteEventBatch(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var ids []uuid.UUID
	err := scope(s.db.WithContext(ctx).Model(&models.Event{})).
		Limit(cleanupBatchSize).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Event{})
	return result.RowsAffected, result.Error
}

// RunEventCleanup is the daily scheduled job wrapper around
// CleanupExpiredEvents, recording the run in the audit trail.
func (s *CommunityService) RunEventCleanup(ctx context.Context) error {
	now := s.Now()
	log.Printf("🧹 [CLEANUP] Removing events before %s", dates.ISO(dates.Midnight(now)))

	isoDeleted, legacyDeleted := s.CleanupExpiredEvents(ctx, now)
	log.Printf("🧹 [CLEANUP] Deleted %d ISO-dated + %d legacy-dated events", isoDeleted, legacyDeleted)

	s.logJobRun(ctx, models.JobEventCleanup, models.JobStatusSuccess, "expired events removed", map[string]interface{}{
		"iso_deleted":    isoDeleted,
		"legacy_deleted": legacyDeleted,
	})
	return nil
}
