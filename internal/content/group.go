package content

// Group is one category bucket of an ordered collection.
type Group[T any] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// GroupByCategory partitions an already-ordered record sequence into one group
// per category, preserving relative order within each group. Categories with no
// matching records yield an empty (non-nil) group so presentation layers can
// decide whether to hide them. Records whose category is outside the set are
// dropped, matching how the original site filters per fixed tab.
func GroupByCategory[T any](records []T, categories []string, categoryOf func(T) string) []Group[T] {
	groups := make([]Group[T], len(categories))
	index := make(map[string]int, len(categories))
	for i, cat := range categories {
		groups[i] = Group[T]{Category: cat, Items: []T{}}
		index[cat] = i
	}
	for _, rec := range records {
		if i, ok := index[categoryOf(rec)]; ok {
			groups[i].Items = append(groups[i].Items, rec)
		}
	}
	return groups
}
