// internal/email/sender.go
package email

import (
	"context"
	"fmt"
	"log"
	"time"

	"church-community-service/internal/config"
	"church-community-service/internal/email/templates"
	"church-community-service/pkg/models"

	"gopkg.in/gomail.v2"
)

type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

// Configured reports whether SMTP credentials are present. When false,
// sends are skipped and logged; message persistence elsewhere counts as
// delivery for that run.
func (s *Sender) Configured() bool {
	return s.cfg.SMTPConfigured()
}

// Send delivers one email with an HTML body and a plain-text fallback.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("📧 [SEND] To: %s | Subject: %s", to, subject)

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	dialer := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)

	// Exponential backoff: 1s, 2s, 4s → max 3 retries
	for attempt := 0; attempt < 3; attempt++ {
		if err := dialer.DialAndSend(m); err != nil {
			delay := time.Duration(1<<attempt) * time.Second // 1s, 2s, 4s
			log.Printf("❌ [ATTEMPT %d] Failed to send email to %s: %v → retrying in %v", attempt+1, to, err, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			}
			continue
		}
		log.Printf("✅ [SUCCESS] Email sent to %s (Subject: %s)", to, subject)
		return nil
	}

	log.Printf("💥 [FAILED] All retries exhausted for %s", to)
	return fmt.Errorf("failed to send email to %s after 3 attempts", to)
}

// SendBirthdayDigest renders and sends the daily birthday digest to the
// configured secretariat inbox.
func (s *Sender) SendBirthdayDigest(ctx context.Context, digest *models.BirthdayDigest) error {
	if s.cfg.DigestRecipientEmail == "" {
		return fmt.Errorf("DIGEST_RECIPIENT_EMAIL not configured")
	}

	htmlBody, err := templates.RenderBirthdayDigestEmail(templates.BirthdayDigestData{
		Date:     digest.Date,
		Today:    digestEntries(digest.Today),
		ThisWeek: digestEntries(digest.ThisWeek),
	})
	if err != nil {
		return fmt.Errorf("render birthday digest: %w", err)
	}
	textBody := templates.RenderBirthdayDigestText(templates.BirthdayDigestData{
		Date:     digest.Date,
		Today:    digestEntries(digest.Today),
		ThisWeek: digestEntries(digest.ThisWeek),
	})

	subject := fmt.Sprintf("🎂 Aniversariantes — %s", digest.Date)
	return s.Send(ctx, s.cfg.DigestRecipientEmail, subject, htmlBody, textBody)
}

func digestEntries(members []models.Member) []templates.BirthdayEntry {
	entries := make([]templates.BirthdayEntry, 0, len(members))
	for _, m := range members {
		entries = append(entries, templates.BirthdayEntry{
			Name:      m.Name,
			BirthDate: m.BirthDate,
			CellGroup: m.CellGroup,
			Phone:     m.Phone,
		})
	}
	return entries
}
