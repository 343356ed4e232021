// Package common defines the shared value types used across all layers of the
// CX-Insight platform: sentiment labels, recommendation priorities and
// categories, and the theme-label conventions shared by the tagger,
// aggregator, and synthesizer.
package common

import (
	"fmt"
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentiment
// ─────────────────────────────────────────────────────────────────────────────

// Sentiment is the label assigned to a review by the upstream sentiment
// classifier. The platform never computes sentiment itself; it only consumes
// these labels.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// IsValid reports whether s is one of the three recognised labels.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

func (s Sentiment) String() string { return string(s) }

// ParseSentiment normalises and validates a raw label string.
func ParseSentiment(raw string) (Sentiment, error) {
	s := Sentiment(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("common: unknown sentiment label %q", raw)
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Recommendation priority and category
// ─────────────────────────────────────────────────────────────────────────────

// Priority ranks a recommendation. Only two levels exist: templated
// remediations for the most damaging themes are HIGH, everything else
// (service/design/competitive/generic) is MEDIUM.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
)

// IsValid reports whether p is a recognised priority level.
func (p Priority) IsValid() bool {
	return p == PriorityHigh || p == PriorityMedium
}

func (p Priority) String() string { return string(p) }

// Recommendation categories. Category is free text on the wire; these
// constants cover the values the built-in templates emit.
const (
	CategoryTechnical   = "Technical"
	CategorySecurityUX  = "Security & UX"
	CategoryCoreFunc    = "Core Functionality"
	CategoryService     = "Service"
	CategoryDesign      = "Design"
	CategoryCompetitive = "Competitive"
	CategoryGeneral     = "General"
)

// ─────────────────────────────────────────────────────────────────────────────
// Themes
// ─────────────────────────────────────────────────────────────────────────────

// SentinelTheme is assigned when no keyword rule matches a review. It
// guarantees the invariant that every review carries at least one theme.
const SentinelTheme = "General Feedback"

// Well-known theme names. The rule table in configuration may define any
// theme name; these constants exist because the recommendation templates
// dispatch on them by exact match.
const (
	ThemeAccessLogin  = "Access & Login"
	ThemePerformance  = "Performance & Reliability"
	ThemeTransactions = "Transactions & Payments"
	ThemeUserExp      = "User Experience"
	ThemeSupport      = "Customer Support"
	ThemeFeatures     = "Features & Functionality"
)

// themeSeparator delimits themes in the persisted string form. The original
// dataset pipeline used the same convention.
const themeSeparator = "|"

// JoinThemes produces the canonical persisted form of a theme set: unique
// names, sorted, joined with "|". The result is deterministic regardless of
// input order.
func JoinThemes(themes []string) string {
	if len(themes) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(themes))
	uniq := make([]string, 0, len(themes))
	for _, t := range themes {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	return strings.Join(uniq, themeSeparator)
}

// SplitThemes parses the persisted "|"-delimited form back into a slice.
// Empty segments are dropped; the result preserves the stored (sorted) order.
func SplitThemes(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, themeSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
