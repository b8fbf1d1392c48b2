package domain

import (
	"slices"
	"strings"
	"time"
)

// AllItemsKey is the cache-key of the unfiltered catalog.
const AllItemsKey = "all"

// Filter narrows a menu read to one category and/or a subset of fields.
type Filter struct {
	Category string
	Fields   []string
}

// IsAll reports whether the filter requests the full, unfiltered catalog.
func (f Filter) IsAll() bool {
	return f.Category == "" && len(f.normalizedFields()) == 0
}

// CategoryOnly reports whether the filter selects a category without narrowing fields.
func (f Filter) CategoryOnly() bool {
	return f.Category != "" && len(f.normalizedFields()) == 0
}

// Key returns the cache-key for the query shape. Field order does not matter.
func (f Filter) Key() string {
	fields := f.normalizedFields()
	if f.Category == "" && len(fields) == 0 {
		return AllItemsKey
	}

	var sb strings.Builder
	sb.WriteString("category=")
	sb.WriteString(f.Category)
	if len(fields) > 0 {
		sb.WriteString("&fields=")
		sb.WriteString(strings.Join(fields, ","))
	}
	return sb.String()
}

// NormalizedFields returns the requested fields in their canonical spelling,
// deduplicated and sorted.
func (f Filter) NormalizedFields() []string {
	return f.normalizedFields()
}

func (f Filter) normalizedFields() []string {
	if len(f.Fields) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		field = CanonicalField(field)
		if field != "" {
			out = append(out, field)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// IDField is the wire name of the item identifier.
const IDField = "menu_id"

var fieldAliases = map[string]string{
	"id":         IDField,
	"identifier": IDField,
	"name":       "dish_name",
	"stock":      "stock_status",
}

// CanonicalField trims and lowercases a field name and resolves the aliases
// older menu backends used.
func CanonicalField(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := fieldAliases[name]; ok {
		return alias
	}
	return name
}

// CacheEntry is a snapshot of one query shape held by a cache tier.
type CacheEntry struct {
	// Key is the cache-key of the query shape.
	Key string
	// Items is the collection in the order it was last written.
	Items []MenuItem
	// FetchedAt is when the snapshot was obtained from the network (or its store record was written).
	FetchedAt time.Time
	// Seq is the sequence number of the fetch that produced the snapshot.
	// Writes with a lower sequence number than the held entry are discarded.
	Seq uint64
}
