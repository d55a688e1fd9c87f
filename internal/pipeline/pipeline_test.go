package pipeline

import (
	"reflect"
	"testing"
)

type item struct {
	id      int
	brand   string
	channel string
	qty     int
	margin  float64
	placed  string
}

func ids(rows []item) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.id
	}
	return out
}

func TestSortByMarginDesc(t *testing.T) {
	rows := []item{
		{id: 1, margin: 4.7},
		{id: 2, margin: 13.6},
		{id: 3, margin: 5.9},
	}
	out := Apply(rows, nil, "", nil, Desc(ByNumber(func(r item) float64 { return r.margin })))
	if got, want := ids(out), []int{2, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("margin desc order = %v, want %v", got, want)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	rows := []item{
		{id: 1, brand: "HAPPY HOUR 777"},
		{id: 2, brand: "GEEK BAR Pulse X"},
	}
	fields := []Field[item]{func(r item) string { return r.brand }}
	out := Apply(rows, nil, "geek", fields, nil)
	if got, want := ids(out), []int{2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("search result = %v, want %v", got, want)
	}
}

func TestFiltersAndTogether(t *testing.T) {
	rows := []item{
		{id: 1, channel: "Primary", qty: 0},
		{id: 2, channel: "Primary", qty: 5},
		{id: 3, channel: "Secondary", qty: 0},
	}
	filters := []Predicate[item]{
		func(r item) bool { return r.channel == "Primary" },
		func(r item) bool { return r.qty == 0 },
	}
	out := Apply(rows, filters, "", nil, nil)
	if got, want := ids(out), []int{1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("two-facet AND = %v, want %v", got, want)
	}
}

func TestEmptySearchReproducesInput(t *testing.T) {
	rows := []item{{id: 3}, {id: 1}, {id: 2}}
	fields := []Field[item]{func(r item) string { return r.brand }}
	out := Apply(rows, nil, "", fields, nil)
	if !reflect.DeepEqual(ids(out), ids(rows)) {
		t.Fatalf("empty search changed order: %v", ids(out))
	}
}

func TestSortStability(t *testing.T) {
	// All margins equal; order must survive the sort.
	rows := []item{{id: 5, margin: 1}, {id: 2, margin: 1}, {id: 9, margin: 1}, {id: 1, margin: 1}}
	out := Apply(rows, nil, "", nil, ByNumber(func(r item) float64 { return r.margin }))
	if got, want := ids(out), []int{5, 2, 9, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("equal-key order = %v, want %v", got, want)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	rows := []item{
		{id: 1, brand: "GEEK BAR", channel: "Primary", margin: 4.7},
		{id: 2, brand: "GEEK BAR", channel: "Primary", margin: 13.6},
		{id: 3, brand: "HAPPY HOUR", channel: "Secondary", margin: 5.9},
		{id: 4, brand: "GEEK BAR Mini", channel: "Primary", margin: 13.6},
	}
	filters := []Predicate[item]{func(r item) bool { return r.channel == "Primary" }}
	fields := []Field[item]{func(r item) string { return r.brand }}
	less := Desc(ByNumber(func(r item) float64 { return r.margin }))

	once := Apply(rows, filters, "geek", fields, less)
	twice := Apply(once, filters, "geek", fields, less)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("pipeline not a fixed point: %v vs %v", ids(once), ids(twice))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rows := []item{{id: 2, margin: 2}, {id: 1, margin: 1}}
	_ = Apply(rows, nil, "", nil, ByNumber(func(r item) float64 { return r.margin }))
	if got, want := ids(rows), []int{2, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("input mutated: %v", got)
	}
}

func TestNumericTextOrdering(t *testing.T) {
	rows := []item{{id: 1, brand: "10"}, {id: 2, brand: "9"}, {id: 3, brand: "100"}}
	out := Apply(rows, nil, "", nil, ByNumericText(func(r item) string { return r.brand }))
	if got, want := ids(out), []int{2, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("numeric text order = %v, want %v (lexical leak?)", got, want)
	}
}

func TestDateOrdering(t *testing.T) {
	rows := []item{
		{id: 1, placed: "2026-02-01"},
		{id: 2, placed: "2025-12-31"},
		{id: 3, placed: "2026-01-15"},
	}
	out := Apply(rows, nil, "", nil, ByDate(func(r item) string { return r.placed }))
	if got, want := ids(out), []int{2, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("chronological order = %v, want %v", got, want)
	}
}

func TestViewCachesUntilInputsChange(t *testing.T) {
	calls := 0
	v := NewView[item]()
	v.SetSort(func(a, b item) bool {
		calls++
		return a.id < b.id
	})
	rows := []item{{id: 2}, {id: 1}}

	first := v.Apply(rows, 1)
	afterFirst := calls
	second := v.Apply(rows, 1)
	if calls != afterFirst {
		t.Fatalf("pipeline re-ran with unchanged snapshot and params")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs")
	}

	// new snapshot generation invalidates
	_ = v.Apply(rows, 2)
	if calls == afterFirst {
		t.Fatalf("pipeline did not re-run for new snapshot generation")
	}

	// parameter change invalidates
	before := calls
	v.SetSearchText("x")
	_ = v.Apply(rows, 2)
	if calls == before {
		t.Fatalf("pipeline did not re-run after search change")
	}
}

func TestViewFacetLifecycle(t *testing.T) {
	v := NewView[item]()
	rows := []item{
		{id: 1, channel: "Primary"},
		{id: 2, channel: "Secondary"},
	}

	v.SetFilter("channel", func(r item) bool { return r.channel == "Primary" })
	if got := ids(v.Apply(rows, 1)); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("facet filter = %v, want [1]", got)
	}
	if !v.HasFilter("channel") {
		t.Fatalf("HasFilter returned false for active facet")
	}

	v.ClearFilter("channel")
	if got := ids(v.Apply(rows, 1)); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("after clear = %v, want all rows", got)
	}
}
