package models

import (
	"strings"

	"golang.org/x/text/cases"
)

type NewsKind string

const (
	KindBulletin     NewsKind = "bulletin"
	KindReport       NewsKind = "report"
	KindVideo        NewsKind = "video"
	KindAnalysis     NewsKind = "analysis"
	KindAnnouncement NewsKind = "announcement"
	KindFeed         NewsKind = "rss"
	KindAPI          NewsKind = "api"
)

// NewsItem is one headline collected from a source. Timestamp is kept in the
// source's own format; it is never parsed.
type NewsItem struct {
	Source    string   `json:"source" yaml:"source"`
	Title     string   `json:"title" yaml:"title"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
	Summary   string   `json:"summary" yaml:"summary"`
	Kind      NewsKind `json:"kind" yaml:"kind"`
	URL       *string  `json:"url,omitempty" yaml:"url,omitempty"`
}

// Key returns the identity of the item: its title trimmed and case-folded.
func (n NewsItem) Key() string {
	return FoldText(strings.TrimSpace(n.Title))
}

// Text is the haystack used by the extractors.
func (n NewsItem) Text() string {
	return n.Title + " " + n.Summary
}

// FoldText case-folds s for case-insensitive comparisons. A Caser keeps
// state, so each call builds its own.
func FoldText(s string) string {
	return cases.Fold().String(s)
}

func StringPtr(s string) *string {
	return &s
}
