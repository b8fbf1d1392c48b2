package domain

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// ItemID identifies a menu item. The menu API sends either numbers or strings;
// both are held in their decimal/string form.
type ItemID string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return zerr.With(zerr.Wrap(ErrInvalidItemID, "null identifier"), "value", "null")
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Join(ErrInvalidItemID, err)
		}
		*id = ItemID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return zerr.With(zerr.Wrap(ErrInvalidItemID, "identifier is not a number"), "value", string(data))
	}
	*id = ItemID(n.String())
	return nil
}

// MarshalJSON writes integer identifiers as numbers and everything else as strings.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

// StockStatus is the availability of a menu item.
type StockStatus string

const (
	// StockIn means the item is available.
	StockIn StockStatus = "in_stock"
	// StockLow means the item is available in limited quantity.
	StockLow StockStatus = "low_stock"
	// StockOut means the item cannot currently be ordered.
	StockOut StockStatus = "out_of_stock"
	// StockUnknown is used when the upstream value cannot be interpreted.
	StockUnknown StockStatus = "unknown"
)

// ParseStockStatus maps the free-form upstream availability string onto StockStatus.
// Matching is case-insensitive and by substring, so "Out of Stock", "out_of_stock"
// and "OUT" all map to StockOut.
func ParseStockStatus(s string) StockStatus {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return StockUnknown
	case strings.Contains(v, "out"), strings.Contains(v, "unavailable"), strings.Contains(v, "sold"):
		return StockOut
	case strings.Contains(v, "low"), strings.Contains(v, "limited"):
		return StockLow
	case strings.Contains(v, "in"), strings.Contains(v, "available"):
		return StockIn
	default:
		return StockUnknown
	}
}

// MenuItem is one sellable dish or drink.
type MenuItem struct {
	ID          ItemID      `json:"menu_id"`
	Name        string      `json:"dish_name"`
	Category    string      `json:"category"`
	Price       float64     `json:"price"`
	ImageURL    string      `json:"image_url,omitempty"`
	Stock       StockStatus `json:"stock_status"`
	Description string      `json:"description,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// menuItemWire accepts every field spelling the menu backends have used.
type menuItemWire struct {
	MenuID      *ItemID `json:"menu_id"`
	ID          *ItemID `json:"id"`
	Identifier  *ItemID `json:"identifier"`
	DishName    string  `json:"dish_name"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	StockStatus string  `json:"stock_status"`
	Stock       string  `json:"stock"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// UnmarshalJSON decodes a menu item, accepting field aliases and lenient timestamps.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	var w menuItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var id ItemID
	switch {
	case w.MenuID != nil:
		id = *w.MenuID
	case w.ID != nil:
		id = *w.ID
	case w.Identifier != nil:
		id = *w.Identifier
	}

	*m = MenuItem{
		ID:          id,
		Name:        cmp.Or(w.DishName, w.Name),
		Category:    w.Category,
		Price:       w.Price,
		ImageURL:    w.ImageURL,
		Stock:       ParseStockStatus(cmp.Or(w.StockStatus, w.Stock)),
		Description: w.Description,
		CreatedAt:   parseTimestamp(w.CreatedAt),
		UpdatedAt:   parseTimestamp(w.UpdatedAt),
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp returns nil for empty or unparseable values; timestamps are optional.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// Validate reports whether the item can be held in a collection.
func (m MenuItem) Validate() error {
	if m.ID == "" {
		return zerr.With(zerr.Wrap(ErrInvalidItemID, "empty identifier"), "name", m.Name)
	}
	if m.Price < 0 {
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidPrice, "rejected item"), "id", string(m.ID)), "price", m.Price)
	}
	return nil
}

// SupersededBy reports whether incoming should replace m under the last-writer-wins rule.
// An item without an update timestamp is always superseded; an incoming item without
// one never supersedes a timestamped item.
func (m MenuItem) SupersededBy(incoming MenuItem) bool {
	if m.UpdatedAt == nil {
		return true
	}
	if incoming.UpdatedAt == nil {
		return false
	}
	return incoming.UpdatedAt.After(*m.UpdatedAt)
}

// Equal reports whether two items hold the same values.
func (m MenuItem) Equal(o MenuItem) bool {
	return m.ID == o.ID &&
		m.Name == o.Name &&
		m.Category == o.Category &&
		m.Price == o.Price &&
		m.ImageURL == o.ImageURL &&
		m.Stock == o.Stock &&
		m.Description == o.Description &&
		timeEqual(m.CreatedAt, o.CreatedAt) &&
		timeEqual(m.UpdatedAt, o.UpdatedAt)
}

func timeEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// CompareItems orders items by category, then name, then identifier.
func CompareItems(a, b MenuItem) int {
	return cmp.Or(
		cmp.Compare(a.Category, b.Category),
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.ID, b.ID),
	)
}

// SortItems sorts items in place by category, then name.
func SortItems(items []MenuItem) {
	slices.SortStableFunc(items, CompareItems)
}

// ItemsEqual reports whether two collections hold equal items in the same order.
func ItemsEqual(a, b []MenuItem) bool {
	return slices.EqualFunc(a, b, MenuItem.Equal)
}

// CloneItems returns a copy of items that shares no backing array with the input.
func CloneItems(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	return slices.Clone(items)
}

// DedupeItems collapses items sharing an identifier using SupersededBy, so the
// later-updated item wins and an untimestamped holder is replaced by a later duplicate.
// Relative order of first appearance is kept.
func DedupeItems(items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	index := make(map[ItemID]int, len(items))
	for _, item := range items {
		i, seen := index[item.ID]
		if !seen {
			index[item.ID] = len(out)
			out = append(out, item)
			continue
		}
		if out[i].SupersededBy(item) {
			out[i] = item
		}
	}
	return out
}

// FilterByCategory returns the items whose category matches exactly.
func FilterByCategory(items []MenuItem, category string) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
