// internal/whatsapp/whatsapp.go
package whatsapp

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"church-community-service/pkg/models"

	"gorm.io/gorm"
)

// Sender renders the birthday digest as a WhatsApp message and a wa.me
// click-to-chat deep link. There is no native API send: the link and
// message are persisted to the outbox for operator follow-through.
type Sender struct {
	db        *gorm.DB
	recipient string // digits only
}

func NewSender(db *gorm.DB, recipient string) *Sender {
	return &Sender{db: db, recipient: NormalizeNumber(recipient)}
}

// Configured reports whether a recipient number is set.
func (s *Sender) Configured() bool {
	return s.recipient != ""
}

// SendBirthdayDigest formats the digest and persists the outbox record.
func (s *Sender) SendBirthdayDigest(ctx context.Context, digest *models.BirthdayDigest) error {
	if !s.Configured() {
		return fmt.Errorf("WHATSAPP_RECIPIENT not configured")
	}

	message := FormatDigestMessage(digest)
	link := BuildLink(s.recipient, message)

	record := models.WhatsAppMessage{
		To:      s.recipient,
		Message: message,
		Link:    link,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("persist whatsapp outbox: %w", err)
	}

	log.Printf("✅ [WHATSAPP] Digest queued for %s → %s", s.recipient, link)
	return nil
}

// BuildLink synthesizes a wa.me click-to-chat URL for a digits-only
// number and a pre-filled message.
func BuildLink(number, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizeNumber(number), url.QueryEscape(message))
}

// NormalizeNumber strips everything but digits.
func NormalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDigestMessage renders the digest as WhatsApp-flavored text.
func FormatDigestMessage(digest *models.BirthdayDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*🎂 Aniversariantes — %s*\n\n", digest.Date)

	b.WriteString("*Hoje:*\n")
	if len(digest.Today) == 0 {
		b.WriteString("_nenhum aniversariante hoje_\n")
	}
	for _, m := range digest.Today {
		writeLine(&b, m)
	}

	b.WriteString("\n*Próximos 7 dias:*\n")
	if len(digest.ThisWeek) == 0 {
		b.WriteString("_nenhum aniversariante na semana_\n")
	}
	for _, m := range digest.ThisWeek {
		writeLine(&b, m)
	}

	return b.String()
}

func writeLine(b *strings.Builder, m models.Member) {
	fmt.Fprintf(b, "• %s (%s)", m.Name, m.BirthDate)
	if m.CellGroup != "" {
		fmt.Fprintf(b, " — célula %s", m.CellGroup)
	}
	b.WriteString("\n")
}
