package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
)

func defaultClassifier() *Classifier {
	return NewClassifier(config.NewDefaultConfig().Analytics)
}

func stat(theme string, total, positive, negative int, avgRating float64) *insight.ThemeStat {
	return &insight.ThemeStat{
		Entity:        "X",
		Theme:         theme,
		Total:         total,
		PositiveCount: positive,
		NegativeCount: negative,
		PositivePct:   float64(positive) / float64(total) * 100,
		NegativePct:   float64(negative) / float64(total) * 100,
		AvgRating:     avgRating,
	}
}

func TestClassifier_DriverBoundariesInclusive(t *testing.T) {
	c := defaultClassifier()

	// Exactly 60.0% positive, exactly 4.0 avg, exactly 20 reviews: driver.
	assert.True(t, c.IsDriver(stat("T", 20, 12, 0, 4.0)))

	// One review short of the volume floor: not a driver.
	assert.False(t, c.IsDriver(stat("T", 19, 12, 0, 4.0)))

	// Just below the percentage floor.
	assert.False(t, c.IsDriver(stat("T", 20, 11, 0, 4.0)))

	// Just below the rating floor.
	assert.False(t, c.IsDriver(stat("T", 20, 12, 0, 3.99)))
}

func TestClassifier_PainPointRatingBoundExclusive(t *testing.T) {
	c := defaultClassifier()

	assert.True(t, c.IsPainPoint(stat("T", 10, 0, 3, 2.99)))
	// avg rating exactly 3.0 does not qualify: strict upper bound.
	assert.False(t, c.IsPainPoint(stat("T", 10, 0, 3, 3.0)))
	// Volume floor of 10 is inclusive.
	assert.True(t, c.IsPainPoint(stat("T", 10, 0, 3, 2.0)))
	assert.False(t, c.IsPainPoint(stat("T", 9, 0, 3, 2.0)))
	// 30.0% negative is inclusive.
	assert.True(t, c.IsPainPoint(stat("T", 10, 0, 3, 2.5)))
	assert.False(t, c.IsPainPoint(stat("T", 10, 0, 2, 2.5)))
}

func TestClassifier_DriverScenario(t *testing.T) {
	// 25 reviews, 18 positive (72%), avg 4.2.
	c := defaultClassifier()
	drivers, painPoints := c.Classify(map[string]*insight.ThemeStat{
		"Performance & Reliability": stat("Performance & Reliability", 25, 18, 2, 4.2),
	})
	require.Len(t, drivers, 1)
	assert.Empty(t, painPoints)
	assert.Equal(t, "Performance & Reliability", drivers[0].Theme)
	assert.InDelta(t, 72.0, drivers[0].PositivePct, 1e-9)
	assert.InDelta(t, 4.2, drivers[0].AvgRating, 1e-9)
	assert.Equal(t, 25, drivers[0].ReviewCount)
}

func TestClassifier_PainPointScenario(t *testing.T) {
	// 12 reviews, 5 negative (41.7%), avg 2.6.
	c := defaultClassifier()
	_, painPoints := c.Classify(map[string]*insight.ThemeStat{
		"Access & Login": stat("Access & Login", 12, 2, 5, 2.6),
	})
	require.Len(t, painPoints, 1)
	assert.Equal(t, "Access & Login", painPoints[0].Theme)
	assert.InDelta(t, 41.7, painPoints[0].NegativePct, 1e-9)
}

func TestClassifier_SortAndTruncate(t *testing.T) {
	c := defaultClassifier()
	stats := map[string]*insight.ThemeStat{
		"A": stat("A", 30, 20, 0, 4.5), // 66.7%
		"B": stat("B", 30, 27, 0, 4.5), // 90%
		"C": stat("C", 30, 24, 0, 4.5), // 80%
		"D": stat("D", 30, 21, 0, 4.5), // 70%
		"E": stat("E", 30, 22, 0, 4.5), // 73.3%
		"F": stat("F", 30, 23, 0, 4.5), // 76.7%
	}
	drivers, _ := c.Classify(stats)
	require.Len(t, drivers, 5)
	assert.Equal(t, []string{"B", "C", "F", "E", "D"}, []string{
		drivers[0].Theme, drivers[1].Theme, drivers[2].Theme, drivers[3].Theme, drivers[4].Theme,
	})
}

func TestClassifier_Idempotent(t *testing.T) {
	c := defaultClassifier()
	stats := map[string]*insight.ThemeStat{
		"A": stat("A", 25, 18, 2, 4.2),
		"B": stat("B", 12, 2, 5, 2.6),
	}
	d1, p1 := c.Classify(stats)
	d2, p2 := c.Classify(stats)
	assert.Equal(t, d1, d2)
	assert.Equal(t, p1, p2)
}

func TestClassifier_EmptyResultIsValid(t *testing.T) {
	c := defaultClassifier()
	drivers, painPoints := c.Classify(map[string]*insight.ThemeStat{
		"T": stat("T", 5, 3, 1, 3.5),
	})
	assert.Empty(t, drivers)
	assert.Empty(t, painPoints)
}
