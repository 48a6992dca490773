// internal/email/templates/birthday_digest.go
package templates

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var birthdayDigestTmpl = template.Must(template.New("birthday_digest").Parse(birthdayDigestHTML))

// BirthdayEntry is one member row in the digest.
type BirthdayEntry struct {
	Name      string
	BirthDate string // YYYY-MM-DD
	CellGroup string
	Phone     string
}

// BirthdayDigestData holds the data for the daily birthday digest email.
type BirthdayDigestData struct {
	Date     string // display-formatted run date
	Today    []BirthdayEntry
	ThisWeek []BirthdayEntry
	Year     int // defaults to time.Now().Year()
}

// RenderBirthdayDigestEmail renders the birthday digest email HTML.
func RenderBirthdayDigestEmail(data BirthdayDigestData) (string, error) {
	if data.Year == 0 {
		data.Year = time.Now().Year()
	}
	var buf strings.Builder
	err := birthdayDigestTmpl.Execute(&buf, data)
	return buf.String(), err
}

// RenderBirthdayDigestText renders the plain-text fallback body.
func RenderBirthdayDigestText(data BirthdayDigestData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Aniversariantes — %s\n\n", data.Date)

	b.WriteString("🎉 Hoje:\n")
	if len(data.Today) == 0 {
		b.WriteString("  (nenhum aniversariante hoje)\n")
	}
	for _, e := range data.Today {
		writeEntry(&b, e)
	}

	b.WriteString("\n📅 Próximos 7 dias:\n")
	if len(data.ThisWeek) == 0 {
		b.WriteString("  (nenhum aniversariante na semana)\n")
	}
	for _, e := range data.ThisWeek {
		writeEntry(&b, e)
	}

	return b.String()
}

func writeEntry(b *strings.Builder, e BirthdayEntry) {
	fmt.Fprintf(b, "  - %s (%s)", e.Name, e.BirthDate)
	if e.CellGroup != "" {
		fmt.Fprintf(b, " — célula %s", e.CellGroup)
	}
	if e.Phone != "" {
		fmt.Fprintf(b, " — %s", e.Phone)
	}
	b.WriteString("\n")
}
