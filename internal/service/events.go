package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"church-community-service/internal/fcm"
	"church-community-service/pkg/dates"
	"church-community-service/pkg/models"

	"github.com/google/uuid"
)

// CreateEvent stores a new calendar entry and broadcasts it to the
// `events` topic. The broadcast is best-effort: a push failure is
// audited and swallowed, never failing the create.
func (s *CommunityService) CreateEvent(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	day, err := dates.NormalizeString(req.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	event := models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        dates.ISO(day),
		Time:        req.Time,
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	body := event.Date
	if event.Time != "" {
		body = fmt.Sprintf("%s às %s", event.Date, event.Time)
	}
	s.broadcastTopicPush(ctx, fcm.TopicEvents, "📅 Novo evento: "+event.Title, body,
		fmt.Sprintf("/events/%s", event.ID))

	return &event, nil
}

func (s *CommunityService) ListEvents(ctx context.Context, limit, offset int) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).Order("date ASC").Limit(limit).Offset(offset).Find(&events).Error
	return events, err
}

func (s *CommunityService) UpdateEvent(ctx context.Context, id uuid.UUID, req *models.EventRequest) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if strings.TrimSpace(req.Title) != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Time != "" {
		updates["time"] = req.Time
	}
	if req.Date != "" {
		day, err := dates.NormalizeString(req.Date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		updates["date"] = dates.ISO(day)
		updates["date_at"] = nil // canonical representation from here on
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&event).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
	}
	return &event, nil
}

func (s *CommunityService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{})
	if result.Error != nil {
		return fmt.Errorf("delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

// CreateDevotional stores a devotional post and broadcasts it to the
// `devotionals` topic, same best-effort semantics as events.
func (s *CommunityService) CreateDevotional(ctx context.Context, req *models.DevotionalRequest) (*models.Devotional, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("title and content are required")
	}

	devotional := models.Devotional{
		Title:   strings.TrimSpace(req.Title),
		Passage: req.Passage,
		Content: req.Content,
	}
	if req.Date != "" {
		day, err := dates.NormalizeString(req.Date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		devotional.Date = dates.ISO(day)
	} else {
		devotional.Date = dates.ISO(s.Now())
	}
	if err := s.db.WithContext(ctx).Create(&devotional).Error; err != nil {
		return nil, fmt.Errorf("create devotional: %w", err)
	}

	body := devotional.Passage
	if body == "" {
		body = truncateBody(devotional.Content, 80)
	}
	s.broadcastTopicPush(ctx, fcm.TopicDevotionals, "🙏 "+devotional.Title, body,
		fmt.Sprintf("/devotionals/%s", devotional.ID))

	return &devotional, nil
}

func (s *CommunityService) ListDevotionals(ctx context.Context, limit, offset int) ([]models.Devotional, error) {
	var devotionals []models.Devotional
	err := s.db.WithContext(ctx).Order("date DESC").Limit(limit).Offset(offset).Find(&devotionals).Error
	return devotionals, err
}

func (s *CommunityService) DeleteDevotional(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Devotional{})
	if result.Error != nil {
		return fmt.Errorf("delete devotional: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("devotional %s not found", id)
	}
	return nil
}

// broadcastTopicPush sends a topic notification and audits the failure
// instead of returning it.
func (s *CommunityService) broadcastTopicPush(ctx context.Context, topic, title, body, link string) {
	if s.push == nil {
		log.Printf("⚠️ [PUSH] Push disabled, broadcast to %q skipped", topic)
		return
	}
	err := s.push.SendToTopic(ctx, topic, title, body, map[string]interface{}{"link": link})
	if err != nil {
		log.Printf("❌ [PUSH] Broadcast to %q failed: %v", topic, err)
		s.logJobRun(ctx, models.JobPushBroadcast, models.JobStatusError, err.Error(), map[string]interface{}{
			"topic": topic,
			"title": title,
		})
		return
	}
	log.Printf("✅ [PUSH] Broadcast to %q: %s", topic, title)
}

// truncateBody caps s at max runes, never cutting mid-rune.
func truncateBody(s string, max int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}
