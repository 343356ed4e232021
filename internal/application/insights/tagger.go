// Package insights implements the analysis pipeline: theme tagging,
// per-entity sentiment aggregation, driver/pain-point classification, entity
// comparison, and recommendation synthesis. Every stage is a pure function
// of its inputs; the Engine wires them together and owns concurrency.
package insights

import (
	"strings"

	"github.com/turtacn/CX-Insight/pkg/errors"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// Tagger assigns topical themes to a review's token stream via keyword
// matching. A review may match any number of themes; when nothing matches it
// receives the "General Feedback" sentinel so every review carries at least
// one theme.
type Tagger struct {
	rules  map[string][]string
	themes []string // sorted theme names, for deterministic output order
}

// NewTagger builds a Tagger from a theme → keyword-list rule table. Keywords
// are lower-cased defensively; a phrase (containing a space) matches as a
// substring of the space-joined token text, a single word matches exact token
// membership.
func NewTagger(rules map[string][]string) (*Tagger, error) {
	if len(rules) == 0 {
		return nil, errors.New(errors.ErrCodeThemeRulesEmpty, "theme keyword rule table is empty")
	}
	normalized := make(map[string][]string, len(rules))
	themes := make([]string, 0, len(rules))
	for theme, keywords := range rules {
		kws := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			return nil, errors.Newf(errors.ErrCodeThemeRulesEmpty,
				"theme %q has no usable keywords", theme)
		}
		normalized[theme] = kws
		themes = append(themes, theme)
	}
	sortStrings(themes)
	return &Tagger{rules: normalized, themes: themes}, nil
}

// Assign returns the theme labels matching the token stream, sorted by theme
// name. The assignment is a boolean OR over each theme's keyword list, so
// keyword order never affects the outcome.
func (t *Tagger) Assign(tokens []string) []string {
	joined := strings.Join(tokens, " ")
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}

	var matched []string
	for _, theme := range t.themes {
		for _, kw := range t.rules[theme] {
			if strings.Contains(kw, " ") {
				if strings.Contains(joined, kw) {
					matched = append(matched, theme)
					break
				}
			} else if _, ok := tokenSet[kw]; ok {
				matched = append(matched, theme)
				break
			}
		}
	}
	if len(matched) == 0 {
		return []string{common.SentinelTheme}
	}
	return matched
}

// Themes returns the rule table's theme names in sorted order.
func (t *Tagger) Themes() []string {
	out := make([]string, len(t.themes))
	copy(out, t.themes)
	return out
}
