// Package listing implements the filter, sort and paginate pipeline shared by
// the admin tables.
package listing

import (
	"cmp"
	"slices"
	"strings"
)

const (
	DefaultPageSize = 10
	StatusAll       = "all"
)

type Query struct {
	Search string `form:"q"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
	Page   int    `form:"page"`
}

func (q Query) desc() bool {
	return strings.EqualFold(q.Order, "desc")
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Table describes how one entity is searched, filtered by status and sorted.
//
// Text returns the display fields matched by the search string. Status
// reports whether an item belongs to the named status bucket; it is not
// consulted for an empty status or StatusAll. Sorts maps sort keys to
// ascending comparators; DefaultSort is used when the query names none or an
// unknown key.
type Table[T any] struct {
	Text        func(T) []string
	Status      func(T, string) bool
	Sorts       map[string]func(a, b T) int
	DefaultSort string
	PageSize    int
}

// Apply runs filter, sort and paginate over a copy of items. Out-of-range
// pages are clamped to the nearest valid page.
func (t Table[T]) Apply(items []T, q Query) Page[T] {
	filtered := t.Filter(items, q)
	t.Sort(filtered, q)
	return Paginate(filtered, q.Page, t.pageSize())
}

func (t Table[T]) Filter(items []T, q Query) []T {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(q.Status)

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !t.matches(item, needle) {
			continue
		}
		if status != "" && !strings.EqualFold(status, StatusAll) && t.Status != nil && !t.Status(item, status) {
			continue
		}
		out = append(out, item)
	}

	return out
}

func (t Table[T]) Sort(items []T, q Query) {
	key := q.Sort
	less, ok := t.Sorts[key]
	if !ok {
		less, ok = t.Sorts[t.DefaultSort]
	}
	if !ok {
		return
	}

	if q.desc() {
		slices.SortStableFunc(items, func(a, b T) int { return less(b, a) })
		return
	}

	slices.SortStableFunc(items, less)
}

func (t Table[T]) matches(item T, needle string) bool {
	if t.Text == nil {
		return true
	}

	for _, field := range t.Text(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

func (t Table[T]) pageSize() int {
	if t.PageSize <= 0 {
		return DefaultPageSize
	}
	return t.PageSize
}

// Paginate returns the 1-based page of items.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	page = min(max(page, 1), pages)

	start := (page - 1) * size
	end := min(start+size, total)

	return Page[T]{
		Items:      slices.Clone(items[start:end]),
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: pages,
	}
}

// By builds an ascending comparator from a key extractor.
func By[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// ByFold compares strings case-insensitively.
func ByFold[T any](key func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
	}
}

// ActiveStatus is the status predicate for entities with a single active flag.
func ActiveStatus[T any](active func(T) bool) func(T, string) bool {
	return func(item T, status string) bool {
		switch strings.ToLower(status) {
		case "active":
			return active(item)
		case "inactive":
			return !active(item)
		default:
			return true
		}
	}
}
