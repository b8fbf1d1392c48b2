package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/menucache/internal/core/domain"
)

func TestFilter_Key(t *testing.T) {
	tests := []struct {
		name     string
		filter   domain.Filter
		key      string
		all      bool
		category bool
	}{
		{"empty", domain.Filter{}, "all", true, false},
		{"blank fields", domain.Filter{Fields: []string{" ", ""}}, "all", true, false},
		{"category", domain.Filter{Category: "Desserts"}, "category=Desserts", false, true},
		{
			"fields are normalized",
			domain.Filter{Fields: []string{" price", "dish_name", "price"}},
			"category=&fields=dish_name,price", false, false,
		},
		{
			"aliases resolve to wire names",
			domain.Filter{Fields: []string{"Name", "id", "identifier", "stock"}},
			"category=&fields=dish_name,menu_id,stock_status", false, false,
		},
		{
			"category and fields",
			domain.Filter{Category: "Mains", Fields: []string{"price"}},
			"category=Mains&fields=price", false, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.filter.Key())
			assert.Equal(t, tt.all, tt.filter.IsAll())
			assert.Equal(t, tt.category, tt.filter.CategoryOnly())
		})
	}
}

func TestFilter_KeyIgnoresFieldOrder(t *testing.T) {
	a := domain.Filter{Fields: []string{"price", "dish_name"}}
	b := domain.Filter{Fields: []string{"dish_name", "price"}}
	assert.Equal(t, a.Key(), b.Key())
}

func TestCanonicalField(t *testing.T) {
	assert.Equal(t, "menu_id", domain.CanonicalField(" ID "))
	assert.Equal(t, "dish_name", domain.CanonicalField("name"))
	assert.Equal(t, "stock_status", domain.CanonicalField("stock"))
	assert.Equal(t, "price", domain.CanonicalField("Price"))
	assert.Empty(t, domain.CanonicalField("  "))
}

func TestClassify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	window := 30 * time.Second

	assert.Equal(t, domain.Absent, domain.Classify(time.Time{}, window, now))
	assert.Equal(t, domain.Fresh, domain.Classify(now.Add(-10*time.Second), window, now))
	assert.Equal(t, domain.Stale, domain.Classify(now.Add(-window), window, now))
	assert.Equal(t, domain.Stale, domain.Classify(now.Add(-time.Hour), window, now))
}

func TestFreshness_Text(t *testing.T) {
	for _, f := range []domain.Freshness{domain.Absent, domain.Fresh, domain.Stale} {
		out, err := json.Marshal(f)
		require.NoError(t, err)

		var back domain.Freshness
		require.NoError(t, json.Unmarshal(out, &back))
		assert.Equal(t, f, back)
	}
	assert.JSONEq(t, `"stale"`, mustJSON(t, domain.Stale))
}

func TestMenuState_Connectivity(t *testing.T) {
	assert.Equal(t, domain.Nominal, domain.MenuState{}.Connectivity())
	assert.Equal(t, domain.Validating, domain.MenuState{IsValidating: true}.Connectivity())
	assert.Equal(t, domain.Offline, domain.MenuState{IsOffline: true, IsValidating: true}.Connectivity())
	assert.Equal(t, "offline", domain.Offline.String())
}

func TestMenuState_Clone(t *testing.T) {
	st := domain.MenuState{Items: []domain.MenuItem{{ID: "1"}}}
	c := st.Clone()
	c.Items[0].ID = "2"
	assert.Equal(t, domain.ItemID("1"), st.Items[0].ID)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}
