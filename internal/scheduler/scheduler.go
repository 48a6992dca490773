package scheduler

import (
	"context"
	"log"
	"time"

	"church-community-service/internal/config"
	"church-community-service/internal/service"
)

// Scheduler fires the daily community jobs at the configured local time.
type Scheduler struct {
	svc *service.CommunityService
	cfg *config.Config
}

func NewScheduler(cfg *config.Config, svc *service.CommunityService) *Scheduler {
	return &Scheduler{svc: svc, cfg: cfg}
}

// Start launches the background daily loop.
func (s *Scheduler) Start() {
	go s.scheduleDailyJobs()
}

// scheduleDailyJobs waits for the next configured fire time, runs the
// job batch, then waits for the following day.
func (s *Scheduler) scheduleDailyJobs() {
	loc := s.cfg.Location()
	for {
		now := time.Now().In(loc)
		fireAt := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.DigestHour, s.cfg.DigestMinute, 0, 0, loc)

		// If the fire time already passed today, schedule for tomorrow
		if now.After(fireAt) {
			fireAt = fireAt.AddDate(0, 0, 1)
		}

		waitDuration := fireAt.Sub(now)
		log.Printf("⏰ Scheduled daily jobs for: %s (in %v)", fireAt.Format(time.RFC3339), waitDuration)

		time.Sleep(waitDuration)

		s.RunDailyJobs(context.Background())

		// Small delay to prevent multiple triggers
		time.Sleep(1 * time.Minute)
	}
}

// RunDailyJobs executes the full daily batch in order. Each job is
// independently failable, a failure never skips the next job.
func (s *Scheduler) RunDailyJobs(ctx context.Context) {
	log.Println("🌅 Starting daily job batch...")

	if err := s.svc.RunBirthdayDigest(ctx); err != nil {
		log.Printf("❌ Birthday digest failed: %v", err)
	}
	if err := s.svc.RunEventCleanup(ctx); err != nil {
		log.Printf("❌ Event cleanup failed: %v", err)
	}
	if err := s.svc.RunTopicResync(ctx); err != nil {
		log.Printf("❌ Topic resync failed: %v", err)
	}

	log.Println("✅ Daily job batch completed")
}
