// Package pipeline applies screen-supplied filter, search and sort functions
// to a snapshot in that fixed order. Each stage is pure over its input; the
// View wrapper memoizes the result so the pipeline only re-runs when the
// snapshot or one of its parameters actually changes.
package pipeline

import (
	"sort"
	"strings"
)

// Predicate reports whether a record passes one filter facet.
type Predicate[R any] func(R) bool

// Comparator reports whether a sorts before b.
type Comparator[R any] func(a, b R) bool

// Field extracts one searchable string from a record.
type Field[R any] func(R) string

// Apply runs filter → search → sort over rows and returns a new slice; rows
// is never modified. Filters AND together. An empty search reproduces the
// filtered set exactly. Sorting is stable, so ties keep the order the
// previous stage produced.
func Apply[R any](rows []R, filters []Predicate[R], searchText string, searchFields []Field[R], less Comparator[R]) []R {
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		if !passesAll(r, filters) {
			continue
		}
		if !matchesSearch(r, searchText, searchFields) {
			continue
		}
		out = append(out, r)
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func passesAll[R any](r R, filters []Predicate[R]) bool {
	for _, f := range filters {
		if f != nil && !f(r) {
			return false
		}
	}
	return true
}

func matchesSearch[R any](r R, text string, fields []Field[R]) bool {
	if text == "" || len(fields) == 0 {
		return true
	}
	q := strings.ToLower(text)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(r)), q) {
			return true
		}
	}
	return false
}

// View holds the active pipeline parameters for one mounted screen and a
// cached result keyed on the snapshot generation plus a parameter revision.
type View[R any] struct {
	filters      map[string]Predicate[R]
	searchText   string
	searchFields []Field[R]
	less         Comparator[R]

	rev       uint64
	cachedGen uint64
	cachedRev uint64
	cached    []R
	valid     bool
}

// NewView returns a view with the given searchable fields and no active
// filters, search text or sort.
func NewView[R any](searchFields ...Field[R]) *View[R] {
	return &View[R]{
		filters:      make(map[string]Predicate[R]),
		searchFields: searchFields,
	}
}

// SetSearchText replaces the free-text query.
func (v *View[R]) SetSearchText(text string) {
	if v.searchText == text {
		return
	}
	v.searchText = text
	v.rev++
}

// SearchText returns the active free-text query.
func (v *View[R]) SearchText() string { return v.searchText }

// SetFilter installs or replaces the named facet's predicate.
func (v *View[R]) SetFilter(name string, p Predicate[R]) {
	v.filters[name] = p
	v.rev++
}

// ClearFilter removes the named facet.
func (v *View[R]) ClearFilter(name string) {
	if _, ok := v.filters[name]; !ok {
		return
	}
	delete(v.filters, name)
	v.rev++
}

// HasFilter reports whether the named facet is active.
func (v *View[R]) HasFilter(name string) bool {
	_, ok := v.filters[name]
	return ok
}

// ClearFilters removes every facet.
func (v *View[R]) ClearFilters() {
	if len(v.filters) == 0 {
		return
	}
	v.filters = make(map[string]Predicate[R])
	v.rev++
}

// SetSort replaces the comparator. Passing nil disables sorting, leaving the
// post-search order untouched.
func (v *View[R]) SetSort(less Comparator[R]) {
	v.less = less
	v.rev++
}

// Apply returns the pipeline result for the snapshot identified by gen,
// reusing the cached slice when neither snapshot nor parameters changed.
func (v *View[R]) Apply(snapshot []R, gen uint64) []R {
	if v.valid && v.cachedGen == gen && v.cachedRev == v.rev {
		return v.cached
	}
	// Facet names sort so the filter stage is deterministic; AND makes the
	// order irrelevant to the result, but not to a debugger.
	names := make([]string, 0, len(v.filters))
	for name := range v.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	filters := make([]Predicate[R], 0, len(names))
	for _, name := range names {
		filters = append(filters, v.filters[name])
	}

	v.cached = Apply(snapshot, filters, v.searchText, v.searchFields, v.less)
	v.cachedGen = gen
	v.cachedRev = v.rev
	v.valid = true
	return v.cached
}
