package crud

import (
	"sort"
	"strings"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// SortOrder is the direction of the active sort
type SortOrder int

const (
	Ascending SortOrder = iota
	Descending
)

// Table is the sorted, filtered view over a record collection
type Table[T model.Record] struct {
	searchKeys []string
	sortKey    string
	order      SortOrder
	term       string
}

// NewTable creates a table whose search matches the given field keys
func NewTable[T model.Record](searchKeys []string) *Table[T] {
	return &Table[T]{searchKeys: searchKeys}
}

// SortBy sorts by field; sorting the same field again flips the direction
func (t *Table[T]) SortBy(field string) {
	if t.sortKey == field && t.order == Ascending {
		t.order = Descending
		return
	}
	t.sortKey = field
	t.order = Ascending
}

// Sort returns the active sort field and direction
func (t *Table[T]) Sort() (string, SortOrder) {
	return t.sortKey, t.order
}

// Search sets the filter term; empty clears it
func (t *Table[T]) Search(term string) {
	t.term = term
}

// Term returns the active filter term
func (t *Table[T]) Term() string {
	return t.term
}

// Apply returns the visible rows: records sorted (stable), then filtered
func (t *Table[T]) Apply(records []T) []T {
	rows := make([]T, len(records))
	copy(rows, records)

	if t.sortKey != "" {
		keys := make([]any, len(rows))
		for i, r := range rows {
			keys[i] = model.Fields(r)[t.sortKey]
		}
		idx := make([]int, len(rows))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			c := compare(keys[idx[a]], keys[idx[b]])
			if t.order == Descending {
				return c > 0
			}
			return c < 0
		})
		sorted := make([]T, len(rows))
		for i, j := range idx {
			sorted[i] = rows[j]
		}
		rows = sorted
	}

	if t.term == "" || len(t.searchKeys) == 0 {
		return rows
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if t.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// matches: strings compare case-insensitively, numbers by their decimal text
func (t *Table[T]) matches(r T) bool {
	fields := model.Fields(r)
	needle := strings.ToLower(t.term)
	for _, key := range t.searchKeys {
		switch v := fields[key].(type) {
		case string:
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		case float64:
			if strings.Contains(model.FormatValue(v), t.term) {
				return true
			}
		}
	}
	return false
}

// compare orders nil first, then numbers, then strings, then bools
func compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	case string:
		return strings.Compare(av, b.(string))
	case bool:
		bv := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case bool:
		return 3
	default:
		return 4
	}
}
