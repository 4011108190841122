// Package export renders a valued portfolio as CSV or PDF documents.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Filename builds cryptonest-portfolio-<CUR>-<slug>-<YYYYMMDD>.<ext>
// where slug is the local part of the email reduced to filename-safe characters.
func Filename(currency, email string, at time.Time, ext string) string {
	local, _, _ := strings.Cut(email, "@")
	return fmt.Sprintf("cryptonest-portfolio-%s-%s-%s.%s", currency, slug(local), at.Format("20060102"), ext)
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
