// Package aggregate merges per-page extraction records into one venue profile.
package aggregate

import (
	"strings"

	"golang.org/x/text/cases"
)

// Named is an entity identified by its display name.
type Named interface {
	ItemName() string
}

// NormalizeName folds case and trims whitespace so "Grand Ballroom" and
// "  grand ballroom " compare equal.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Dedupe keeps the first entity for each normalized name, preserving order.
// Entities without a usable name are dropped. The result is never nil.
func Dedupe[T Named](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		key := NormalizeName(item.ItemName())
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
