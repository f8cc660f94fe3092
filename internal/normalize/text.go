package normalize

import (
	"strings"

	"adlens/internal/models"
)

var adTextKeys = []string{"adText", "ad_text", "text"}

// AdText resolves the ad's body text through its historical key aliases.
func AdText(raw models.RawRecord) string {
	return stringify(firstPresent(raw, adTextKeys))
}

// SummaryLength is the default visible length for summarized text. Call sites
// may pass their own (the card body uses 200).
const SummaryLength = 160

// Summarize collapses newlines to spaces, trims, and truncates to max runes
// with a trailing ellipsis when exceeded. Empty input or a non-positive max
// yields empty output.
func Summarize(s string, max int) string {
	if s == "" || max <= 0 {
		return ""
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
