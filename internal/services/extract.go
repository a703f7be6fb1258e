package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bobby-s-dev/flood-monitor/internal/models"
)

// Numbers may carry "." thousands separators ("3.400 desabrigados").
var (
	deathsPattern    = regexp.MustCompile(`(?i)(\d[\d.]*)\s*(?:mortes?|óbitos?|vítimas?\s*fatais?)`)
	missingPattern   = regexp.MustCompile(`(?i)(\d[\d.]*)\s*desaparecid[oa]s?`)
	shelteredPattern = regexp.MustCompile(`(?i)(\d[\d.]*)\s*desabrigad[oa]s?`)
	displacedPattern = regexp.MustCompile(`(?i)(\d[\d.]*)\s*desalojad[oa]s?`)
)

// ExtractMetrics scans every item's title and summary and keeps the largest
// number seen for each metric. Early reports under-count, so the maximum is
// taken as the current figure. Metrics nothing matched stay nil.
func ExtractMetrics(items []models.NewsItem) models.PartialMetrics {
	var p models.PartialMetrics
	for _, item := range items {
		text := item.Text()
		p.Deaths = maxMatch(deathsPattern, text, p.Deaths)
		p.Missing = maxMatch(missingPattern, text, p.Missing)
		p.Sheltered = maxMatch(shelteredPattern, text, p.Sheltered)
		p.Displaced = maxMatch(displacedPattern, text, p.Displaced)
	}
	return p
}

func maxMatch(re *regexp.Regexp, text string, current *int) *int {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ".", ""))
		if err != nil {
			continue
		}
		if current == nil || n > *current {
			current = &n
		}
	}
	return current
}

// ExtractLocations counts, for each gazetteer name, the items whose text
// mentions it. LastHeadline is the title of the last matching item in merge
// order. Names never mentioned are absent from the result.
func ExtractLocations(items []models.NewsItem, gazetteer []string) map[string]models.LocationMention {
	folded := make([]string, len(items))
	for i, item := range items {
		folded[i] = models.FoldText(item.Text())
	}

	mentions := make(map[string]models.LocationMention)
	for _, name := range gazetteer {
		needle := models.FoldText(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for i, text := range folded {
			if !strings.Contains(text, needle) {
				continue
			}
			m := mentions[name]
			m.Name = name
			m.MentionCount++
			m.LastHeadline = items[i].Title
			mentions[name] = m
		}
	}
	return mentions
}
