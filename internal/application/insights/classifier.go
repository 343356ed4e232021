package insights

import (
	"sort"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
)

// Classifier applies the driver and pain-point threshold predicates to
// aggregated theme statistics. Classification is a pure function of
// (positive_pct, negative_pct, avg_rating, total); re-running it on identical
// input yields an identical result.
type Classifier struct {
	driver        config.DriverThresholds
	painPoint     config.PainPointThresholds
	topDrivers    int
	topPainPoints int
}

// NewClassifier builds a Classifier from the analytics configuration.
func NewClassifier(cfg config.AnalyticsConfig) *Classifier {
	return &Classifier{
		driver:        cfg.Driver,
		painPoint:     cfg.PainPoint,
		topDrivers:    cfg.TopDrivers,
		topPainPoints: cfg.TopPainPoints,
	}
}

// IsDriver evaluates the driver predicate. All bounds are inclusive.
func (c *Classifier) IsDriver(st *insight.ThemeStat) bool {
	return st.PositivePct >= c.driver.MinPositivePct &&
		st.AvgRating >= c.driver.MinAvgRating &&
		st.Total >= c.driver.MinReviews
}

// IsPainPoint evaluates the pain-point predicate. The rating bound is an
// exclusive upper bound; the other two are inclusive lower bounds.
func (c *Classifier) IsPainPoint(st *insight.ThemeStat) bool {
	return st.NegativePct >= c.painPoint.MinNegativePct &&
		st.AvgRating < c.painPoint.MaxAvgRating &&
		st.Total >= c.painPoint.MinReviews
}

// Classify partitions the entity's theme statistics into qualifying drivers
// and pain points. Drivers are sorted by positive_pct descending, pain points
// by negative_pct descending (theme name breaks ties), each truncated to the
// configured top-K. An empty result is a valid outcome, not an error.
func (c *Classifier) Classify(stats map[string]*insight.ThemeStat) ([]insight.Driver, []insight.PainPoint) {
	themes := make([]string, 0, len(stats))
	for theme := range stats {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	var drivers []insight.Driver
	var painPoints []insight.PainPoint
	for _, theme := range themes {
		st := stats[theme]
		if c.IsDriver(st) {
			drivers = append(drivers, insight.Driver{
				Theme:       st.Theme,
				PositivePct: round1(st.PositivePct),
				AvgRating:   st.AvgRating,
				ReviewCount: st.Total,
				Evidence:    st.PositiveTexts,
			})
		}
		if c.IsPainPoint(st) {
			painPoints = append(painPoints, insight.PainPoint{
				Theme:       st.Theme,
				NegativePct: round1(st.NegativePct),
				AvgRating:   st.AvgRating,
				ReviewCount: st.Total,
				Evidence:    st.NegativeTexts,
			})
		}
	}

	sort.SliceStable(drivers, func(i, j int) bool {
		return drivers[i].PositivePct > drivers[j].PositivePct
	})
	sort.SliceStable(painPoints, func(i, j int) bool {
		return painPoints[i].NegativePct > painPoints[j].NegativePct
	})

	if len(drivers) > c.topDrivers {
		drivers = drivers[:c.topDrivers]
	}
	if len(painPoints) > c.topPainPoints {
		painPoints = painPoints[:c.topPainPoints]
	}
	return drivers, painPoints
}
