package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLibraryURL(t *testing.T) {
	got := BuildLibraryURL("us", "coffee", "all", "active", "keyword_unordered")
	assert.Equal(t,
		"https://www.facebook.com/ads/library/?active_status=active&ad_type=all&country=US&is_targeted_country=false&media_type=all&q=coffee&search_type=keyword_unordered",
		got,
	)
}

func TestBuildLibraryURL_NormalizesCountry(t *testing.T) {
	got := BuildLibraryURL("  de ", "shoes", "all", "all", "keyword_exact_phrase")
	assert.Contains(t, got, "country=DE")
	assert.Contains(t, got, "search_type=keyword_exact_phrase")
}

func TestBuildLibraryURL_EncodesKeyword(t *testing.T) {
	got := BuildLibraryURL("US", "running shoes & más", "all", "active", "keyword_unordered")
	assert.Contains(t, got, "q=running+shoes+%26+m%C3%A1s")
	assert.NotContains(t, got, "q=running shoes")
}

func TestBuildLibraryURL_Deterministic(t *testing.T) {
	a := BuildLibraryURL("GB", "tea", "political_and_issue_ads", "inactive", "keyword_unordered")
	b := BuildLibraryURL("GB", "tea", "political_and_issue_ads", "inactive", "keyword_unordered")
	assert.Equal(t, a, b)
}
