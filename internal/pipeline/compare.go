package pipeline

import (
	"strconv"
	"strings"
	"time"
)

// ByString compares case-insensitively on the extracted field.
func ByString[R any](field Field[R]) Comparator[R] {
	return func(a, b R) bool {
		return strings.ToLower(field(a)) < strings.ToLower(field(b))
	}
}

// ByNumber compares numerically on the extracted field.
func ByNumber[R any](field func(R) float64) Comparator[R] {
	return func(a, b R) bool { return field(a) < field(b) }
}

// ByInt compares numerically on the extracted field.
func ByInt[R any](field func(R) int) Comparator[R] {
	return func(a, b R) bool { return field(a) < field(b) }
}

// ByNumericText compares text-stored numbers numerically, not lexically, so
// "9" sorts before "10". Unparsable values sort first.
func ByNumericText[R any](field Field[R]) Comparator[R] {
	return func(a, b R) bool {
		return parseNum(field(a)) < parseNum(field(b))
	}
}

func parseNum(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// dateLayouts covers the formats the replica stores dates in.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ByDate compares text-stored timestamps chronologically. Unparsable values
// sort first.
func ByDate[R any](field Field[R]) Comparator[R] {
	return func(a, b R) bool {
		return parseDate(field(a)).Before(parseDate(field(b)))
	}
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Desc reverses a comparator.
func Desc[R any](less Comparator[R]) Comparator[R] {
	return func(a, b R) bool { return less(b, a) }
}
