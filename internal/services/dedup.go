package services

import (
	"sort"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
)

// MergeNews concatenates lists in order, keeps the first item per normalized
// title and sorts the survivors by timestamp, newest first.
//
// Timestamps are compared as plain strings. Sources use different formats, so
// cross-source order is only roughly chronological.
func MergeNews(lists ...[]models.NewsItem) []models.NewsItem {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]models.NewsItem, 0, total)
	for _, l := range lists {
		for _, item := range l {
			key := item.Key()
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged
}
