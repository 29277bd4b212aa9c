// Package view derives the ordered projections every portal screen shows:
// a filter predicate, a comparator and an optional cap on the result size.
package view

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Project returns the items kept by keep, stably sorted by compare and truncated
// to limit. A nil keep keeps everything, a nil compare keeps input order and a
// limit <= 0 means no cap. The input slice is never modified.
func Project[T any](items []T, keep func(T) bool, compare func(a, b T) int, limit int) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep == nil || keep(it) {
			out = append(out, it)
		}
	}
	if compare != nil {
		slices.SortStableFunc(out, compare)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Count returns how many items satisfy keep.
func Count[T any](items []T, keep func(T) bool) int {
	n := 0
	for _, it := range items {
		if keep(it) {
			n++
		}
	}
	return n
}

// Ascending orders by a key, smallest first.
func Ascending[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// Descending orders by a key, largest first.
func Descending[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(b), key(a)) }
}

// Newest orders by a timestamp, most recent first.
func Newest[T any](at func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return at(b).Compare(at(a)) }
}

// Oldest orders by a timestamp, earliest first.
func Oldest[T any](at func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return at(a).Compare(at(b)) }
}

// ContainsFold reports whether substr is within s, ignoring case.
// An empty substr always matches.
func ContainsFold(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// MatchesOption treats "" and "all" as no filter.
func MatchesOption(value, option string) bool {
	return option == "" || option == "all" || value == option
}
