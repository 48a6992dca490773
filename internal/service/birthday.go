package service

import (
	"context"
	"log"
	"time"

	"church-community-service/pkg/dates"
	"church-community-service/pkg/models"
)

// birthdayWindowDays is the forward window for the "this week" group,
// counted from today inclusive.
const birthdayWindowDays = 7

// BuildBirthdayDigest scans members and groups the ones whose birthday
// (month+day) falls on now's date or inside the 7-day forward window.
// An occurrence that already passed this year is advanced to next year,
// so a late-December run still sees early-January birthdays. Members
// with an unparseable birth_date are skipped. List order follows the
// input order; no further sort is guaranteed.
func BuildBirthdayDigest(members []models.Member, now time.Time) *models.BirthdayDigest {
	today := dates.Midnight(now)
	windowEnd := today.AddDate(0, 0, birthdayWindowDays)

	digest := &models.BirthdayDigest{
		Date:     now.Format("02/01/2006"),
		Today:    []models.Member{},
		ThisWeek: []models.Member{},
	}

	for _, m := range members {
		if m.BirthDate == "" {
			continue
		}
		month, day, err := dates.MonthDay(m.BirthDate)
		if err != nil {
			log.Printf("⚠️ [DIGEST] Member %s has invalid birth_date %q, skipped", m.ID, m.BirthDate)
			continue
		}

		// Feb 29 normalizes to Mar 1 in non-leap years via time.Date.
		occurrence := time.Date(today.Year(), month, day, 0, 0, 0, 0, today.Location())
		if occurrence.Before(today) {
			occurrence = time.Date(today.Year()+1, month, day, 0, 0, 0, 0, today.Location())
		}

		if occurrence.Equal(today) {
			digest.Today = append(digest.Today, m)
		}
		if !occurrence.Before(today) && occurrence.Before(windowEnd) {
			digest.ThisWeek = append(digest.ThisWeek, m)
		}
	}

	return digest
}

// RunBirthdayDigest is the daily scheduled job: build the digest, fan it
// out to every enabled channel, and record the run. Channel failures are
// collected, not propagated. Delivery failure is not job failure.
func (s *CommunityService) RunBirthdayDigest(ctx context.Context) error {
	now := s.Now()
	log.Printf("🎂 [DIGEST] Starting birthday digest for %s", now.Format("2006-01-02"))

	var members []models.Member
	if err := s.db.WithContext(ctx).Where("birth_date <> ''").Find(&members).Error; err != nil {
		log.Printf("❌ [DIGEST] Failed to scan members: %v", err)
		s.logJobRun(ctx, models.JobBirthdayDigest, models.JobStatusError, err.Error(), nil)
		return nil
	}

	digest := BuildBirthdayDigest(members, now)
	log.Printf("🎂 [DIGEST] %d today, %d this week (scanned %d members)",
		len(digest.Today), len(digest.ThisWeek), len(members))

	summary := DispatchDigest(ctx, s.digestChannels(), digest)

	s.logJobRun(ctx, models.JobBirthdayDigest, models.JobStatusSuccess, "digest generated", map[string]interface{}{
		"date":         digest.Date,
		"today":        len(digest.Today),
		"this_week":    len(digest.ThisWeek),
		"channels_ok":  summary.OK,
		"channels_err": summary.Failed,
		"results":      summary.Results,
	})
	return nil
}
