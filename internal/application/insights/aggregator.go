package insights

import (
	"math"
	"sort"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// Aggregator computes per-(entity, theme) sentiment statistics. Themes are
// enumerated from the observed reviews, not from configuration, so novel or
// entity-specific themes flow through naturally.
type Aggregator struct {
	evidenceSamples int
}

// NewAggregator builds an Aggregator retaining evidenceSamples positive and
// negative example texts per theme.
func NewAggregator(evidenceSamples int) *Aggregator {
	return &Aggregator{evidenceSamples: evidenceSamples}
}

// Aggregate computes one ThemeStat per distinct theme among entity's reviews.
// Reviews are processed in ascending review-ID order so that evidence
// selection ("first N encountered") is deterministic regardless of upstream
// ordering.
func (a *Aggregator) Aggregate(entity string, reviews []*review.Review) map[string]*insight.ThemeStat {
	ordered := make([]*review.Review, len(reviews))
	copy(ordered, reviews)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	stats := make(map[string]*insight.ThemeStat)
	ratingSums := make(map[string]int)

	for _, r := range ordered {
		for _, theme := range r.Themes {
			st, ok := stats[theme]
			if !ok {
				st = &insight.ThemeStat{Entity: entity, Theme: theme}
				stats[theme] = st
			}
			st.Total++
			ratingSums[theme] += r.Rating

			switch r.Sentiment {
			case common.SentimentPositive:
				st.PositiveCount++
				if len(st.PositiveTexts) < a.evidenceSamples {
					st.PositiveTexts = append(st.PositiveTexts, r.Text)
				}
			case common.SentimentNegative:
				st.NegativeCount++
				if len(st.NegativeTexts) < a.evidenceSamples {
					st.NegativeTexts = append(st.NegativeTexts, r.Text)
				}
			}
		}
	}

	for theme, st := range stats {
		// Total is never 0 here: themes exist only because a review
		// carried them.
		st.PositivePct = float64(st.PositiveCount) / float64(st.Total) * 100
		st.NegativePct = float64(st.NegativeCount) / float64(st.Total) * 100
		st.AvgRating = round2(float64(ratingSums[theme]) / float64(st.Total))
	}
	return stats
}

// round1 rounds to one decimal place. Used for percentages at the output
// boundary.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// round2 rounds to two decimal places. Used for average ratings.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func sortStrings(s []string) { sort.Strings(s) }
