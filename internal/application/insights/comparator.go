package insights

import (
	"sort"
	"strconv"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// Comparator computes the per-entity summary used for cross-entity reporting
// and as peer context for competitive-gap recommendations. It has no
// dependency on the classifier and may run concurrently with it.
type Comparator struct {
	topThemes int
}

// NewComparator builds a Comparator that retains the topThemes most
// frequently mentioned themes per entity.
func NewComparator(topThemes int) *Comparator {
	return &Comparator{topThemes: topThemes}
}

// Compare summarises one entity's full review set: count, mean rating over
// all reviews, overall sentiment percentages, rating histogram, and the
// ranked theme list by raw mention count (a multi-theme review counts toward
// each of its themes).
func (c *Comparator) Compare(reviews []*review.Review) insight.Comparison {
	cmp := insight.Comparison{
		RatingDistribution: make(map[string]int),
	}
	if len(reviews) == 0 {
		return cmp
	}

	ratingSum := 0
	positive, negative := 0, 0
	themeCounts := make(map[string]int)
	for _, r := range reviews {
		ratingSum += r.Rating
		cmp.RatingDistribution[strconv.Itoa(r.Rating)]++
		switch r.Sentiment {
		case common.SentimentPositive:
			positive++
		case common.SentimentNegative:
			negative++
		}
		for _, theme := range r.Themes {
			themeCounts[theme]++
		}
	}

	total := len(reviews)
	cmp.TotalReviews = total
	cmp.AvgRating = round2(float64(ratingSum) / float64(total))
	cmp.PositivePct = round1(float64(positive) / float64(total) * 100)
	cmp.NegativePct = round1(float64(negative) / float64(total) * 100)

	ranked := make([]insight.ThemeCount, 0, len(themeCounts))
	for theme, count := range themeCounts {
		ranked = append(ranked, insight.ThemeCount{Theme: theme, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Theme < ranked[j].Theme
	})
	if len(ranked) > c.topThemes {
		ranked = ranked[:c.topThemes]
	}
	cmp.TopThemes = ranked
	return cmp
}
