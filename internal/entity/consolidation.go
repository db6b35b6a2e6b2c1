package entity

import (
	"fmt"
	"sort"
)

// ShapeKind names one of the recognised batch-file layouts.
type ShapeKind string

const (
	// NestedText files hold pseudo-list strings such as "['a', 'b']" in
	// their cells.
	NestedText ShapeKind = "nested"
	// FlatColumn files hold one item per row in a named column.
	FlatColumn ShapeKind = "flat"
)

// Shape describes how to pull text items out of a batch file.
// For NestedText an empty Column means every column.
type Shape struct {
	Kind   ShapeKind
	Column string
}

// ParseShapeKind validates a user-supplied shape name.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch ShapeKind(s) {
	case NestedText, FlatColumn:
		return ShapeKind(s), nil
	default:
		return "", fmt.Errorf("unknown shape %q (want %q or %q)", s, NestedText, FlatColumn)
	}
}

// ConsolidatedSet is a set of unique text items gathered across batch files.
type ConsolidatedSet struct {
	items map[string]struct{}
}

// NewConsolidatedSet returns an empty set.
func NewConsolidatedSet() *ConsolidatedSet {
	return &ConsolidatedSet{items: make(map[string]struct{})}
}

// Add inserts items and returns how many were new.
func (s *ConsolidatedSet) Add(items ...string) int {
	added := 0
	for _, it := range items {
		if _, ok := s.items[it]; ok {
			continue
		}
		s.items[it] = struct{}{}
		added++
	}
	return added
}

// Contains reports whether item is in the set.
func (s *ConsolidatedSet) Contains(item string) bool {
	_, ok := s.items[item]
	return ok
}

// Len returns the number of unique items.
func (s *ConsolidatedSet) Len() int {
	return len(s.items)
}

// Sorted returns the items in lexical order.
func (s *ConsolidatedSet) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for it := range s.items {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
