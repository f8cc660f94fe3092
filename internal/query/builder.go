// Package query composes ad-library search URLs. Pure string assembly, no
// network access: identical inputs always produce byte-identical output,
// which the fetch cache relies on.
package query

import (
	"fmt"
	"net/url"
	"strings"
)

const libraryBase = "https://www.facebook.com/ads/library/?"

// BuildLibraryURL builds the ad-library search URL for the given selections.
// Country is trimmed and upper-cased, the keyword percent-encoded; ad type,
// active status and search mode are opaque pre-mapped wire tokens.
func BuildLibraryURL(country, keyword, adType, activeStatus, searchMode string) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	q := url.QueryEscape(strings.TrimSpace(keyword))
	return libraryBase + fmt.Sprintf(
		"active_status=%s&ad_type=%s&country=%s&is_targeted_country=false&media_type=all&q=%s&search_type=%s",
		activeStatus, adType, country, q, searchMode,
	)
}
