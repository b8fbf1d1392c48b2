// Package reconciler keeps the full menu collection in step with the realtime change feed.
package reconciler

import (
	"slices"

	"go.trai.ch/menucache/internal/core/domain"
)

// Apply returns items with ev applied and whether the collection changed.
// The input slice is never modified. The result is sorted by category, name
// and identifier.
//
// Inserts of a known identifier are ignored. Updates replace the held item only
// when it is superseded under the last-writer-wins rule, and insert unknown
// identifiers. Deletes of unknown identifiers are ignored.
func Apply(items []domain.MenuItem, ev domain.ChangeEvent) ([]domain.MenuItem, bool) {
	if ev.Validate() != nil {
		return items, false
	}

	idx := slices.IndexFunc(items, func(it domain.MenuItem) bool { return it.ID == ev.TargetID() })

	switch ev.Type {
	case domain.ChangeInsert:
		if idx >= 0 {
			return items, false
		}
		return sorted(append(domain.CloneItems(items), *ev.New)), true

	case domain.ChangeUpdate:
		if idx < 0 {
			return sorted(append(domain.CloneItems(items), *ev.New)), true
		}
		held := items[idx]
		if !held.SupersededBy(*ev.New) || held.Equal(*ev.New) {
			return items, false
		}
		out := domain.CloneItems(items)
		out[idx] = *ev.New
		return sorted(out), true

	case domain.ChangeDelete:
		if idx < 0 {
			return items, false
		}
		return sorted(slices.Delete(domain.CloneItems(items), idx, idx+1)), true
	}

	return items, false
}

// ApplyAll folds events over items in order.
func ApplyAll(items []domain.MenuItem, events ...domain.ChangeEvent) ([]domain.MenuItem, bool) {
	changed := false
	for _, ev := range events {
		var ok bool
		items, ok = Apply(items, ev)
		changed = changed || ok
	}
	return items, changed
}

func sorted(items []domain.MenuItem) []domain.MenuItem {
	domain.SortItems(items)
	return items
}
