package workflow

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filters narrows an item list. Each populated dimension is an OR-membership
// test; dimensions combine with AND. Empty slices and a blank search string
// impose no constraint, so the zero Filters is the identity.
type Filters struct {
	Status   []Status
	Priority []Priority
	Category []Category
	Search   string
}

// IsEmpty reports whether the filter imposes no constraints.
func (f Filters) IsEmpty() bool {
	return len(f.Status) == 0 && len(f.Priority) == 0 && len(f.Category) == 0 && strings.TrimSpace(f.Search) == ""
}

// Apply returns the items satisfying every constrained dimension. Input order
// is preserved; Apply never re-sorts. The input slice is not modified.
// A Caser carries internal buffers, so each call folds with its own.
func (f Filters) Apply(items []Item) []Item {
	if f.IsEmpty() {
		return items
	}

	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(f.Search))
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if !f.matches(item, fold, search) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func (f Filters) matches(item Item, fold cases.Caser, foldedSearch string) bool {
	if len(f.Status) > 0 && !containsStatus(f.Status, item.Status) {
		return false
	}
	if len(f.Priority) > 0 && !containsPriority(f.Priority, item.Priority) {
		return false
	}
	if len(f.Category) > 0 && !containsCategory(f.Category, item.Category) {
		return false
	}
	if foldedSearch != "" && !searchMatches(item, fold, foldedSearch) {
		return false
	}
	return true
}

func searchMatches(item Item, fold cases.Caser, foldedSearch string) bool {
	for _, field := range []string{item.Title, item.Subtitle, item.Reason} {
		if field == "" {
			continue
		}
		if strings.Contains(fold.String(field), foldedSearch) {
			return true
		}
	}
	return false
}

func containsStatus(haystack []Status, needle Status) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsPriority(haystack []Priority, needle Priority) bool {
	for _, p := range haystack {
		if p == needle {
			return true
		}
	}
	return false
}

func containsCategory(haystack []Category, needle Category) bool {
	for _, c := range haystack {
		if c == needle {
			return true
		}
	}
	return false
}
