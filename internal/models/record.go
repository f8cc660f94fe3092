package models

import "time"

// RawRecord is a single scraped ad exactly as the upstream actor returned it.
// Key names are unstable across actor versions; any key may be absent.
type RawRecord map[string]any

// CuratedRecord is the fixed-schema projection of a RawRecord. Every field is
// independently optional: a missing or malformed source value degrades to nil.
type CuratedRecord struct {
	AdArchiveID           *string `json:"ad_archive_id"`
	Categories            *string `json:"categories"`
	CollationCount        *string `json:"collation_count"`
	CollationID           *string `json:"collation_id"`
	StartDate             *string `json:"start_date"`
	EndDate               *string `json:"end_date"`
	EntityType            *string `json:"entity_type"`
	IsActive              *bool   `json:"is_active"`
	PageID                *string `json:"page_id"`
	PageName              *string `json:"page_name"`
	CtaText               *string `json:"cta_text"`
	CtaType               *string `json:"cta_type"`
	LinkURL               *string `json:"link_url"`
	PageEntityType        *string `json:"page_entity_type"`
	PageProfilePictureURL *string `json:"page_profile_picture_url"`
	PageProfileURI        *string `json:"page_profile_uri"`
	StateMediaRunLabel    *string `json:"state_media_run_label"`
	TotalActiveTime       *int64  `json:"total_active_time"`
	OriginalImageURL      *string `json:"original_image_url"`
}

// SavedRecord is a CuratedRecord persisted into a collection. Raw holds the
// deserialized copy of the original RawRecord; when deserialization fails on
// read it holds the stored string as-is instead.
type SavedRecord struct {
	ID      int64     `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	CuratedRecord
	Raw any `json:"raw_json,omitempty"`
}

// FilterSelection is a user's typed query intent. Category, status and match
// mode arrive as pre-mapped wire tokens, not user-facing labels.
type FilterSelection struct {
	CountryCode    string `json:"country_code"`
	Keyword        string `json:"keyword"`
	CategoryParam  string `json:"category_param"`
	StatusParam    string `json:"status_param"`
	MatchModeParam string `json:"match_mode_param"`
	Count          int    `json:"count"`
}

const (
	MinFetchCount     = 1
	MaxFetchCount     = 1000
	DefaultFetchCount = 50
)
