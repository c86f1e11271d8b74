package render

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"
)

const DefaultCurrency = "INR"

func FormatSalary(min, max *int64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s %s - %s", currency, humanize.Comma(*min), humanize.Comma(*max))
	case min != nil:
		return fmt.Sprintf("%s %s+", currency, humanize.Comma(*min))
	case max != nil:
		return fmt.Sprintf("Up to %s %s", currency, humanize.Comma(*max))
	}
	return "Not disclosed"
}

func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// PlainText strips markup from s, collapses whitespace and cuts the result
// to at most max runes, adding an ellipsis when something was cut.
func PlainText(s string, max int) string {
	text := html.UnescapeString(strictPolicy.Sanitize(s))
	text = strings.Join(strings.Fields(text), " ")
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
