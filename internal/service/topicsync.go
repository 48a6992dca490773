package service

import (
	"context"
	"log"

	"church-community-service/internal/fcm"
)

// syncMemberTopics mirrors a member's push token change to the broadcast
// topics. Unsubscribe runs before subscribe so a token value reused by
// another member is never left stale-subscribed. Each direction is
// independently failable: an unsubscribe error never blocks the
// subscribe attempt, and nothing propagates to the member write.
func (s *CommunityService) syncMemberTopics(ctx context.Context, before, after *string) {
	oldToken := derefToken(before)
	newToken := derefToken(after)

	if oldToken == newToken {
		return
	}
	if s.push == nil {
		log.Printf("⚠️ [TOPICS] Push disabled, token change not mirrored")
		return
	}

	if oldToken != "" {
		for _, topic := range fcm.BroadcastTopics() {
			if _, _, err := s.push.UnsubscribeFromTopic(ctx, []string{oldToken}, topic); err != nil {
				log.Printf("⚠️ [TOPICS] Unsubscribe %s from %q failed: %v", fcm.MaskToken(oldToken), topic, err)
			}
		}
	}

	if newToken != "" {
		for _, topic := range fcm.BroadcastTopics() {
			if _, _, err := s.push.SubscribeToTopic(ctx, []string{newToken}, topic); err != nil {
				log.Printf("⚠️ [TOPICS] Subscribe %s to %q failed: %v", fcm.MaskToken(newToken), topic, err)
			}
		}
		log.Printf("✅ [TOPICS] Token %s subscribed to broadcast topics", fcm.MaskToken(newToken))
	}
}

func derefToken(t *string) string {
	if t == nil {
		return ""
	}
	return *t
}
