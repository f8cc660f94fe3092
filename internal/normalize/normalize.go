// Package normalize projects loosely-structured scraped ad records into the
// fixed curated schema. Every function in this package is total: absent or
// malformed input degrades to nil fields, never an error.
package normalize

import (
	"strings"

	"adlens/internal/models"
)

// Key-alias tables for fields renamed across actor versions. Ordered,
// first-present-wins; the order is a compatibility contract.
var (
	adArchiveIDKeys = []string{"ad_archive_id", "adId"}
	pageIDKeys      = []string{"page_id", "pageId"}
	pageNameKeys    = []string{"page_name", "pageName"}
)

// Normalize extracts the curated field set from a raw scraped record.
func Normalize(raw models.RawRecord) models.CuratedRecord {
	snap := Snapshot(raw)

	card0 := firstEntry(snap["cards"])
	pgcat0 := firstEntry(snap["page_categories"])

	linkURL := asString(snap["link_url"])
	if linkURL == nil && card0 != nil {
		linkURL = asString(card0["link_url"])
	}

	ctaText := cardThenSnapshot(card0, snap, "cta_text")
	ctaType := cardThenSnapshot(card0, snap, "cta_type")

	pageEntityType := asString(raw["page_entity_type"])
	if pgcat0 != nil {
		if v := asString(pgcat0["page_entity_type"]); v != nil {
			pageEntityType = v
		}
	}

	return models.CuratedRecord{
		AdArchiveID:           asString(firstPresent(raw, adArchiveIDKeys)),
		Categories:            categoriesDisplay(raw["categories"]),
		CollationCount:        asString(raw["collation_count"]),
		CollationID:           asString(raw["collation_id"]),
		StartDate:             CoerceDate(firstPresent(raw, startDateKeys)),
		EndDate:               CoerceDate(firstPresent(raw, endDateKeys)),
		EntityType:            asString(raw["entity_type"]),
		IsActive:              asBool(raw["is_active"]),
		PageID:                asString(firstPresent(raw, pageIDKeys)),
		PageName:              asString(firstPresent(raw, pageNameKeys)),
		CtaText:               ctaText,
		CtaType:               ctaType,
		LinkURL:               linkURL,
		PageEntityType:        pageEntityType,
		PageProfilePictureURL: topLevelThenSnapshot(raw, snap, "page_profile_picture_url"),
		PageProfileURI:        topLevelThenSnapshot(raw, snap, "page_profile_uri"),
		StateMediaRunLabel:    asString(raw["state_media_run_label"]),
		TotalActiveTime:       asInt64(raw["total_active_time"]),
		OriginalImageURL:      OriginalImageURL(raw),
	}
}

// categoriesDisplay joins a category list into a comma-separated display
// string; a scalar value passes through as-is.
func categoriesDisplay(v any) *string {
	list, ok := v.([]any)
	if !ok {
		return asString(v)
	}
	parts := make([]string, 0, len(list))
	for _, c := range list {
		parts = append(parts, stringify(c))
	}
	s := strings.Join(parts, ", ")
	if s == "" {
		return nil
	}
	return &s
}

func cardThenSnapshot(card0, snap map[string]any, key string) *string {
	if card0 != nil {
		if v := asString(card0[key]); v != nil {
			return v
		}
	}
	return asString(snap[key])
}

func topLevelThenSnapshot(raw models.RawRecord, snap map[string]any, key string) *string {
	if v := asString(raw[key]); v != nil {
		return v
	}
	return asString(snap[key])
}
