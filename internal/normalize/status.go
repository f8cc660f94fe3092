package normalize

import (
	"strings"
	"time"

	"adlens/internal/models"
)

// DefaultStatus is the policy applied when nothing on the record indicates
// otherwise. The upstream library reports undetected ads as active rather
// than unknown; kept as an explicit named default.
const DefaultStatus = "Active"

// statusKeys is the ordered list of status-bearing keys. First present wins;
// the order is a compatibility contract with historical actor versions.
var statusKeys = []string{"activeStatus", "status", "adStatus", "active_status"}

// DetectStatus resolves a display status for the record. Priority: explicit
// status key, explicit is_active=false flag, end date already in the past,
// then DefaultStatus.
func DetectStatus(raw models.RawRecord, now time.Time) string {
	for _, k := range statusKeys {
		if v, ok := raw[k]; ok && v != nil {
			return capitalize(stringify(v))
		}
	}
	if b, ok := raw["is_active"].(bool); ok && !b {
		return "Inactive"
	}
	if end, ok := ParseDateMaybe(firstPresent(raw, endDateKeys)); ok && end.Before(now.UTC()) {
		return "Inactive"
	}
	return DefaultStatus
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
