// Package listing filters, sorts and pages an in-memory snapshot.
package listing

import (
	"sort"
	"strings"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Column compares two items on one field: negative, zero or positive.
type Column[T any] struct {
	Name    string
	Compare func(a, b T) int
}

func StringColumn[T any](name string, get func(T) string) Column[T] {
	return Column[T]{Name: name, Compare: func(a, b T) int { return compare(get(a), get(b)) }}
}

func NumberColumn[T any](name string, get func(T) float64) Column[T] {
	return Column[T]{Name: name, Compare: func(a, b T) int { return compare(get(a), get(b)) }}
}

// BoolColumn orders false before true, so descending lists true first.
func BoolColumn[T any](name string, get func(T) bool) Column[T] {
	return Column[T]{Name: name, Compare: func(a, b T) int { return compare(b2i(get(a)), b2i(get(b))) }}
}

func compare[V string | float64 | int](a, b V) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Filter returns the items keep accepts. The result is never nil.
func Filter[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortBy returns an ordered copy of list.
func SortBy[T any](list []T, col Column[T], dir Direction) []T {
	out := make([]T, len(list))
	copy(out, list)
	if col.Compare == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := col.Compare(out[i], out[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Paginate returns page (1-indexed) of list. Pages below 1 are page 1;
// a page size below 1 or a page past the end is empty.
func Paginate[T any](list []T, pageSize, page int) []T {
	if pageSize < 1 {
		return []T{}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(list) {
		return []T{}
	}
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	out := make([]T, end-start)
	copy(out, list[start:end])
	return out
}

func PageCount(n, pageSize int) int {
	if pageSize < 1 || n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Contains is the case-insensitive substring test used by search.
func Contains(field, query string) bool {
	return strings.Contains(strings.ToLower(field), strings.ToLower(query))
}
