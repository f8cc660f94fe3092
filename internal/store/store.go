// Package store persists saved ad records into a fixed, closed set of named
// collections backed by a single SQLite database file.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"adlens/internal/models"
	"adlens/internal/providers"
	"adlens/internal/structures"
)

// Collections is the closed set of collection names. Every read and write is
// validated against it; an unrecognized name is an input error, never a new
// table.
var Collections = []string{"team1", "team2", "team3"}

// ErrInvalidCollection is returned when a collection name is not a member of
// the closed set.
var ErrInvalidCollection = errors.New("invalid collection")

// schemaTemplate is instantiated once per collection. CREATE IF NOT EXISTS
// keeps first-run races between process instances harmless.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ad_archive_id TEXT,
	categories TEXT,
	collation_count TEXT,
	collation_id TEXT,
	start_date TEXT,
	end_date TEXT,
	entity_type TEXT,
	is_active INTEGER,
	page_id TEXT,
	page_name TEXT,
	cta_text TEXT,
	cta_type TEXT,
	link_url TEXT,
	page_entity_type TEXT,
	page_profile_picture_url TEXT,
	page_profile_uri TEXT,
	state_media_run_label TEXT,
	total_active_time INTEGER,
	original_image_url TEXT,
	raw_json TEXT,
	saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

type StoreInterface interface {
	EnsureSchema() error
	Insert(collection string, rec *models.CuratedRecord, raw models.RawRecord) error
	List(collection string) ([]*models.SavedRecord, error)
	Count(collection string) (int, error)
	Close() error
}

type Store struct {
	db     *sql.DB
	logger providers.Logger
}

// NewStore opens (creating if absent) the SQLite database at the configured
// path. WAL and a busy timeout make the file safe to share between
// independent process instances.
func NewStore(conf *structures.Config, logger providers.Logger) (StoreInterface, error) {
	db, err := sql.Open("sqlite", conf.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	logger.Infof(providers.TypeApp, "Store opened at %s", conf.Store.Path)
	return &Store{db: db, logger: logger}, nil
}

// EnsureSchema creates each collection's table if absent. Idempotent, safe to
// call on every start.
func (s *Store) EnsureSchema() error {
	for _, c := range Collections {
		if _, err := s.db.Exec(fmt.Sprintf(schemaTemplate, c)); err != nil {
			return fmt.Errorf("ensure schema for %s: %w", c, err)
		}
	}
	return nil
}

func validCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

var insertColumns = []string{
	"ad_archive_id", "categories", "collation_count", "collation_id",
	"start_date", "end_date", "entity_type", "is_active",
	"page_id", "page_name", "cta_text", "cta_type",
	"link_url", "page_entity_type", "page_profile_picture_url",
	"page_profile_uri", "state_media_run_label", "total_active_time",
	"original_image_url", "raw_json",
}

// Insert appends one saved record to the collection. No dedup, no upsert:
// repeated saves of the same logical ad create distinct rows. The raw record,
// when present, is stored as an opaque serialized blob.
func (s *Store) Insert(collection string, rec *models.CuratedRecord, raw models.RawRecord) error {
	if !validCollection(collection) {
		return fmt.Errorf("%w: %s", ErrInvalidCollection, collection)
	}

	var rawJSON any
	if raw != nil {
		blob, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("serialize raw record: %w", err)
		}
		rawJSON = string(blob)
	}

	var isActive any
	if rec.IsActive != nil {
		if *rec.IsActive {
			isActive = 1
		} else {
			isActive = 0
		}
	}

	placeholders := ""
	cols := ""
	for i, c := range insertColumns {
		if i > 0 {
			cols += ","
			placeholders += ","
		}
		cols += c
		placeholders += "?"
	}
	// collection is validated against the closed set above, so interpolating
	// the table name is safe
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", collection, cols, placeholders)

	_, err := s.db.Exec(stmt,
		rec.AdArchiveID, rec.Categories, rec.CollationCount, rec.CollationID,
		rec.StartDate, rec.EndDate, rec.EntityType, isActive,
		rec.PageID, rec.PageName, rec.CtaText, rec.CtaType,
		rec.LinkURL, rec.PageEntityType, rec.PageProfilePictureURL,
		rec.PageProfileURI, rec.StateMediaRunLabel, rec.TotalActiveTime,
		rec.OriginalImageURL, rawJSON,
	)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// List returns the collection's records, most recently saved first. The raw
// blob is deserialized back into a mapping; a blob that no longer decodes is
// returned in its serialized form rather than failing the read.
func (s *Store) List(collection string) ([]*models.SavedRecord, error) {
	if !validCollection(collection) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCollection, collection)
	}

	stmt := fmt.Sprintf(
		"SELECT id, %s, saved_at FROM %s ORDER BY saved_at DESC, id DESC",
		joinColumns(), collection,
	)
	rows, err := s.db.Query(stmt)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var result []*models.SavedRecord
	for rows.Next() {
		rec, err := scanSavedRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", collection, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return result, nil
}

// Count returns the number of saved records in the collection.
func (s *Store) Count(collection string) (int, error) {
	if !validCollection(collection) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCollection, collection)
	}
	var n int
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", collection)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func joinColumns() string {
	cols := ""
	for i, c := range insertColumns {
		if i > 0 {
			cols += ", "
		}
		cols += c
	}
	return cols
}

func scanSavedRecord(rows *sql.Rows) (*models.SavedRecord, error) {
	var (
		rec                                          models.SavedRecord
		adArchiveID, categories, collationCount      sql.NullString
		collationID, startDate, endDate, entityType  sql.NullString
		pageID, pageName, ctaText, ctaType, linkURL  sql.NullString
		pageEntityType, profilePicture, profileURI   sql.NullString
		stateMediaRunLabel, originalImage, rawJSON   sql.NullString
		isActive, totalActiveTime                    sql.NullInt64
		savedAt                                      sql.NullString
	)

	err := rows.Scan(
		&rec.ID,
		&adArchiveID, &categories, &collationCount, &collationID,
		&startDate, &endDate, &entityType, &isActive,
		&pageID, &pageName, &ctaText, &ctaType,
		&linkURL, &pageEntityType, &profilePicture,
		&profileURI, &stateMediaRunLabel, &totalActiveTime,
		&originalImage, &rawJSON, &savedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.AdArchiveID = nullableString(adArchiveID)
	rec.Categories = nullableString(categories)
	rec.CollationCount = nullableString(collationCount)
	rec.CollationID = nullableString(collationID)
	rec.StartDate = nullableString(startDate)
	rec.EndDate = nullableString(endDate)
	rec.EntityType = nullableString(entityType)
	rec.PageID = nullableString(pageID)
	rec.PageName = nullableString(pageName)
	rec.CtaText = nullableString(ctaText)
	rec.CtaType = nullableString(ctaType)
	rec.LinkURL = nullableString(linkURL)
	rec.PageEntityType = nullableString(pageEntityType)
	rec.PageProfilePictureURL = nullableString(profilePicture)
	rec.PageProfileURI = nullableString(profileURI)
	rec.StateMediaRunLabel = nullableString(stateMediaRunLabel)
	rec.OriginalImageURL = nullableString(originalImage)

	if isActive.Valid {
		b := isActive.Int64 != 0
		rec.IsActive = &b
	}
	if totalActiveTime.Valid {
		rec.TotalActiveTime = &totalActiveTime.Int64
	}
	if savedAt.Valid {
		if ts, err := time.ParseInLocation("2006-01-02 15:04:05", savedAt.String, time.UTC); err == nil {
			rec.SavedAt = ts
		}
	}
	if rawJSON.Valid && rawJSON.String != "" {
		var decoded models.RawRecord
		if err := json.Unmarshal([]byte(rawJSON.String), &decoded); err == nil {
			rec.Raw = decoded
		} else {
			rec.Raw = rawJSON.String
		}
	}
	return &rec, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
