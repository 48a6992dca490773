package service

import (
	"context"
	"log"

	"church-community-service/internal/fcm"
	"church-community-service/pkg/models"
)

// resyncPageSize bounds one DB page of the reconciliation scan.
const resyncPageSize = 2000

// RunTopicResync is the daily reconciliation job: every known push token
// is re-subscribed to every broadcast topic, paged out of the store and
// chunked to the push API's per-call cap. A chunk failure is counted and
// skipped, never aborting the remaining chunks.
func (s *CommunityService) RunTopicResync(ctx context.Context) error {
	if s.push == nil {
		log.Printf("⚠️ [RESYNC] Push disabled, skipping topic resync")
		s.logJobRun(ctx, models.JobTopicResync, models.JobStatusSuccess, "push disabled, skipped", nil)
		return nil
	}

	var totalTokens, totalOK, totalFailed int
	for offset := 0; ; offset += resyncPageSize {
		var tokens []string
		err := s.db.WithContext(ctx).Model(&models.Member{}).
			Where("fcm_token IS NOT NULL AND fcm_token <> ''").
			Order("id").
			Limit(resyncPageSize).
			Offset(offset).
			Pluck("fcm_token", &tokens).Error
		if err != nil {
			log.Printf("❌ [RESYNC] Failed to fetch tokens at offset %d: %v", offset, err)
			s.logJobRun(ctx, models.JobTopicResync, models.JobStatusError, err.Error(), nil)
			return nil
		}
		if len(tokens) == 0 {
			break
		}
		totalTokens += len(tokens)

		for _, chunk := range fcm.ChunkTokens(tokens, fcm.SubscribeBatchSize) {
			for _, topic := range fcm.BroadcastTopics() {
				ok, failed, err := s.push.SubscribeToTopic(ctx, chunk, topic)
				if err != nil {
					log.Printf("⚠️ [RESYNC] Chunk of %d → topic %q failed: %v", len(chunk), topic, err)
				}
				totalOK += ok
				totalFailed += failed
			}
		}

		if len(tokens) < resyncPageSize {
			break
		}
	}

	log.Printf("✅ [RESYNC] Done: %d tokens, %d ok, %d failed", totalTokens, totalOK, totalFailed)
	s.logJobRun(ctx, models.JobTopicResync, models.JobStatusSuccess, "topic resync completed", map[string]interface{}{
		"tokens": totalTokens,
		"topics": len(fcm.BroadcastTopics()),
		"ok":     totalOK,
		"failed": totalFailed,
	})
	return nil
}
