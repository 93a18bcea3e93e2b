package libraries

import (
	"sort"
	"strings"

	"improved-initiative/core/items"
	"improved-initiative/core/library"
)

// Group is a set of listings sharing one key.
type Group struct {
	Key      string                `json:"key"`
	Listings []library.ListingMeta `json:"listings"`
}

// GroupBy buckets listings by folder path or by a filter dimension. "path"
// uses the top folder; any other name is looked up in FilterDimensions, and
// "Level" keys sort numerically. Listings without a key land in the "" group,
// which sorts last.
func GroupBy(metas []library.ListingMeta, by string) []Group {
	keyOf := func(m library.ListingMeta) string { return m.FilterDimensions[by] }
	if strings.EqualFold(by, "path") {
		keyOf = func(m library.ListingMeta) string {
			top, _, _ := strings.Cut(m.Path, "/")
			return top
		}
	}
	sortKey := func(k string) string { return strings.ToLower(k) }
	if by == "Level" {
		sortKey = items.SortableLevel
	}

	index := map[string]int{}
	var groups []Group
	for _, m := range metas {
		k := keyOf(m)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Listings = append(groups[i].Listings, m)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		if a == "" || b == "" {
			return b == "" && a != ""
		}
		return sortKey(a) < sortKey(b)
	})
	for _, g := range groups {
		sort.SliceStable(g.Listings, func(i, j int) bool {
			return strings.ToLower(g.Listings[i].Name) < strings.ToLower(g.Listings[j].Name)
		})
	}
	return groups
}
