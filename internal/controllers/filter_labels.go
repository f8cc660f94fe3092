package controllers

// User-facing filter labels and their wire tokens. The mapping belongs to the
// presentation boundary; the query builder receives the tokens as opaque
// values.
var CategoryLabelToAdType = map[string]string{
	"All ads":                         "all",
	"Issues, elections or politics":   "issues_elections_politics",
	"Properties":                      "housing",
	"Employment":                      "employment",
	"Financial products and services": "credit",
}

var ActiveStatusLabelToParam = map[string]string{
	"Active ads":   "active",
	"Inactive ads": "inactive",
	"All ads":      "all",
}

var SearchModeLabelToParam = map[string]string{
	"Broad (any words)": "keyword_unordered",
	"Exact phrase":      "keyword_exact",
}

type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

var CommonCountries = []Country{
	{"United States", "US"},
	{"India", "IN"},
	{"United Kingdom", "GB"},
	{"Canada", "CA"},
	{"Australia", "AU"},
	{"Germany", "DE"},
	{"France", "FR"},
	{"Brazil", "BR"},
	{"Singapore", "SG"},
}

// mapLabel translates a user-facing label to its wire token; values that are
// not known labels pass through untouched, so callers may send tokens
// directly.
func mapLabel(table map[string]string, v string) string {
	if tok, ok := table[v]; ok {
		return tok
	}
	return v
}
