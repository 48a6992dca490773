package service

import (
	"context"
	"log"

	"church-community-service/pkg/models"
)

// DigestChannel is one delivery channel for the birthday digest. Every
// channel is independently failable: one channel's error never blocks a
// sibling's attempt.
type DigestChannel interface {
	Name() string
	Send(ctx context.Context, digest *models.BirthdayDigest) error
}

// ChannelResult is the per-channel outcome of one fan-out.
type ChannelResult struct {
	Channel string `json:"channel"`
	Error   string `json:"error,omitempty"`
}

// DispatchSummary aggregates a fan-out: counts plus per-channel results.
type DispatchSummary struct {
	OK      int             `json:"ok"`
	Failed  int             `json:"failed"`
	Results []ChannelResult `json:"results"`
}

// DispatchDigest sends the digest through every channel, collecting each
// result instead of propagating. The fan-out itself never fails.
func DispatchDigest(ctx context.Context, channels []DigestChannel, digest *models.BirthdayDigest) DispatchSummary {
	summary := DispatchSummary{}
	for _, ch := range channels {
		result := ChannelResult{Channel: ch.Name()}
		if err := ch.Send(ctx, digest); err != nil {
			log.Printf("❌ [DIGEST] Channel %s failed: %v", ch.Name(), err)
			result.Error = err.Error()
			summary.Failed++
		} else {
			log.Printf("✅ [DIGEST] Channel %s delivered", ch.Name())
			summary.OK++
		}
		summary.Results = append(summary.Results, result)
	}
	return summary
}

type emailChannel struct {
	sender interface {
		SendBirthdayDigest(ctx context.Context, digest *models.BirthdayDigest) error
	}
}

func (c emailChannel) Name() string { return "email" }

func (c emailChannel) Send(ctx context.Context, digest *models.BirthdayDigest) error {
	return c.sender.SendBirthdayDigest(ctx, digest)
}

type whatsappChannel struct {
	sender interface {
		SendBirthdayDigest(ctx context.Context, digest *models.BirthdayDigest) error
	}
}

func (c whatsappChannel) Name() string { return "whatsapp" }

func (c whatsappChannel) Send(ctx context.Context, digest *models.BirthdayDigest) error {
	return c.sender.SendBirthdayDigest(ctx, digest)
}

// digestChannels assembles the enabled channels for this deployment.
// A channel missing its configuration is a logged soft skip, not an
// error. The run still counts as delivered via what remains.
func (s *CommunityService) digestChannels() []DigestChannel {
	var channels []DigestChannel

	if s.emailSender != nil && s.emailSender.Configured() && s.cfg.DigestRecipientEmail != "" {
		channels = append(channels, emailChannel{sender: s.emailSender})
	} else {
		log.Printf("⚠️ [DIGEST] Email channel skipped (SMTP or recipient not configured)")
	}

	if s.waSender != nil && s.waSender.Configured() {
		channels = append(channels, whatsappChannel{sender: s.waSender})
	} else {
		log.Printf("⚠️ [DIGEST] WhatsApp channel skipped (recipient not configured)")
	}

	return channels
}
