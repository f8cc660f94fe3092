package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adlens/internal/models"
)

func TestSnapshot_Mapping(t *testing.T) {
	raw := models.RawRecord{"snapshot": map[string]any{"cta_text": "Shop Now"}}
	snap := Snapshot(raw)
	assert.Equal(t, "Shop Now", snap["cta_text"])
}

func TestSnapshot_StringEncoded(t *testing.T) {
	raw := models.RawRecord{"snapshot": `{"cta_text":"Learn More"}`}
	snap := Snapshot(raw)
	assert.Equal(t, "Learn More", snap["cta_text"])
}

func TestSnapshot_DegradesToEmpty(t *testing.T) {
	assert.Empty(t, Snapshot(models.RawRecord{}))
	assert.Empty(t, Snapshot(models.RawRecord{"snapshot": "{not json"}))
	assert.Empty(t, Snapshot(models.RawRecord{"snapshot": `["a list"]`}))
	assert.Empty(t, Snapshot(models.RawRecord{"snapshot": float64(7)}))
	assert.NotNil(t, Snapshot(models.RawRecord{"snapshot": nil}))
}

func TestFirstEntry(t *testing.T) {
	m := map[string]any{"k": "v"}
	assert.Equal(t, m, firstEntry([]any{m, map[string]any{"k": "other"}}))
	assert.Equal(t, m, firstEntry(m))
	assert.Nil(t, firstEntry([]any{}))
	assert.Nil(t, firstEntry([]any{"scalar"}))
	assert.Nil(t, firstEntry(nil))
	assert.Nil(t, firstEntry("string"))
}

func TestEntries(t *testing.T) {
	a := map[string]any{"n": float64(1)}
	b := map[string]any{"n": float64(2)}
	assert.Equal(t, []map[string]any{a, b}, entries([]any{a, "skipped", b}))
	assert.Equal(t, []map[string]any{a}, entries(a))
	assert.Nil(t, entries("nope"))
	assert.Nil(t, entries(nil))
}
