package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/notebook-popup-control/internal/menu"
)

// CloneItems produces a shallow copy of items.
func CloneItems(items []menu.Item) []menu.Item {
	return append(make([]menu.Item, 0, len(items)), items...)
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	l.snap(1)
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// FilterItems keeps the entries matching query. An empty query keeps
// everything; otherwise only selectable entries can match, first by fuzzy
// label match and failing that by substring of label or ID.
func FilterItems(items []menu.Item, query string) []menu.Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return CloneItems(items)
	}
	var candidates []menu.Item
	for _, item := range items {
		if item.Selectable() {
			candidates = append(candidates, item)
		}
	}
	hits := make(map[int]bool)
	for _, rank := range fuzzy.RankFindNormalizedFold(query, labels(candidates)) {
		hits[rank.OriginalIndex] = true
	}
	if len(hits) == 0 {
		for i, item := range candidates {
			if tierOf(item, strings.ToLower(query)) >= 0 {
				hits[i] = true
			}
		}
	}
	out := make([]menu.Item, 0, len(hits))
	for i, item := range candidates {
		if hits[i] {
			out = append(out, item)
		}
	}
	return out
}

// match tiers, best first.
const (
	tierExact = iota
	tierLabelPrefix
	tierIDPrefix
	tierIDContains
	tierLabelContains
)

func tierOf(item menu.Item, lower string) int {
	label, id := strings.ToLower(item.Label), strings.ToLower(item.ID)
	switch {
	case label == lower || id == lower:
		return tierExact
	case strings.HasPrefix(label, lower):
		return tierLabelPrefix
	case strings.HasPrefix(id, lower):
		return tierIDPrefix
	case strings.Contains(id, lower):
		return tierIDContains
	case strings.Contains(label, lower):
		return tierLabelContains
	}
	return -1
}

// BestMatchIndex picks the entry the cursor should land on for query: the
// earliest entry of the best tier, else the closest fuzzy match, else 0.
// It returns -1 only for an empty list.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0
	}
	lower := strings.ToLower(query)
	best, bestTier := -1, -1
	for i, item := range items {
		tier := tierOf(item, lower)
		if tier >= 0 && (best < 0 || tier < bestTier) {
			best, bestTier = i, tier
		}
	}
	if best >= 0 {
		return best
	}
	ranks := fuzzy.RankFindNormalizedFold(query, labels(items))
	if len(ranks) == 0 {
		return 0
	}
	best = ranks[0].OriginalIndex
	dist := ranks[0].Distance
	for _, rank := range ranks[1:] {
		if rank.Distance < dist || (rank.Distance == dist && rank.OriginalIndex < best) {
			best, dist = rank.OriginalIndex, rank.Distance
		}
	}
	return best
}

func labels(items []menu.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}
