package client

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bobby-s-dev/flood-monitor/internal/models"
)

const (
	maxTitleLength   = 100
	maxSummaryLength = 150
	timestampLength  = 16
	timestampLayout  = "02/01 15:04"
	ellipsis         = "..."
)

// truncate cuts s to at most n runes, appending an ellipsis when it had to cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + ellipsis
}

// prefix returns the first n runes of s without decoration.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// htmlText strips markup from feed and API summaries.
func htmlText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapseSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	return collapseSpace(doc.Text())
}

// matchesAny reports whether text contains one of keywords, ignoring case.
// An empty keyword list matches everything.
func matchesAny(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	folded := models.FoldText(text)
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(folded, models.FoldText(k)) {
			return true
		}
	}
	return false
}
