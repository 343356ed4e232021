package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/internal/domain/review"
	"github.com/turtacn/CX-Insight/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CX-Insight/pkg/errors"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(config.NewDefaultConfig().Analytics, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	return e
}

func TestEngine_EmptyInputIsFatal(t *testing.T) {
	e := newTestEngine(t)
	_, _, err := e.Run(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetEmpty))
}

func TestEngine_SkipsMalformedReviews(t *testing.T) {
	e := newTestEngine(t)
	reviews := []*review.Review{
		mkReview("r1", "CBE", 4, common.SentimentPositive, "great transfer experience"),
		{ID: "r2", Entity: "CBE", Rating: 0, Sentiment: common.SentimentPositive}, // bad rating
		{ID: "r3", Entity: "CBE", Rating: 3, Sentiment: "mixed"},                  // bad sentiment
	}

	doc, skipped, err := e.Run(context.Background(), reviews)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, 1, doc.Comparison["CBE"].TotalReviews)
}

func TestEngine_AllMalformedIsFatal(t *testing.T) {
	e := newTestEngine(t)
	_, skipped, err := e.Run(context.Background(), []*review.Review{
		{ID: "r1", Entity: "CBE", Rating: 9, Sentiment: common.SentimentPositive},
	})
	require.Error(t, err)
	assert.Equal(t, 1, skipped)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatasetEmpty))
}

func TestEngine_TagsUntaggedReviews(t *testing.T) {
	e := newTestEngine(t)
	reviews := []*review.Review{
		mkReview("r1", "CBE", 1, common.SentimentNegative, "the app crash every day"),
		mkReview("r2", "CBE", 5, common.SentimentPositive, "wonderful experience overall"),
	}

	doc, _, err := e.Run(context.Background(), reviews)
	require.NoError(t, err)

	// Every review carries a non-empty theme set after the run.
	for _, r := range reviews {
		assert.NotEmpty(t, r.Themes)
	}
	assert.Equal(t, []string{"Performance & Reliability"}, reviews[0].Themes)
	assert.Equal(t, []string{common.SentinelTheme}, reviews[1].Themes)
	assert.NotNil(t, doc)
}

// driverScenarioReviews builds 25 "Performance & Reliability" reviews with 18
// positive labels and an average rating of 4.2 (105/25).
func driverScenarioReviews(entity string) []*review.Review {
	var reviews []*review.Review
	for i := 0; i < 25; i++ {
		sentiment := common.SentimentNeutral
		if i < 18 {
			sentiment = common.SentimentPositive
		}
		rating := 4
		if i < 5 {
			rating = 5
		}
		reviews = append(reviews, mkReview(
			fmt.Sprintf("%s-%02d", entity, i), entity, rating, sentiment,
			"the app is fast and never crash",
			"Performance & Reliability"))
	}
	return reviews
}

func TestEngine_EndToEndDriverScenario(t *testing.T) {
	e := newTestEngine(t)
	doc, skipped, err := e.Run(context.Background(), driverScenarioReviews("X"))
	require.NoError(t, err)
	assert.Zero(t, skipped)

	drivers := doc.Drivers["X"]
	require.Len(t, drivers, 1)
	assert.Equal(t, "Performance & Reliability", drivers[0].Theme)
	assert.InDelta(t, 72.0, drivers[0].PositivePct, 1e-9)
	assert.InDelta(t, 4.2, drivers[0].AvgRating, 1e-9)
	assert.Equal(t, 25, drivers[0].ReviewCount)
	assert.LessOrEqual(t, len(drivers[0].Evidence), 2)
}

func TestEngine_EndToEndCompetitiveGap(t *testing.T) {
	e := newTestEngine(t)

	// Entity A: mediocre ratings, no qualifying themes.
	var reviews []*review.Review
	for i := 0; i < 10; i++ {
		reviews = append(reviews, mkReview(
			fmt.Sprintf("a-%02d", i), "A", 3, common.SentimentNeutral,
			"it is fine i guess", common.SentinelTheme))
	}
	// Entity B: strong driver and a clear rating lead.
	reviews = append(reviews, driverScenarioReviews("B")...)

	doc, _, err := e.Run(context.Background(), reviews)
	require.NoError(t, err)

	// B leads A by 1.2 rating points (> 0.3), so A borrows B's driver.
	require.Len(t, doc.Recommendations["A"], 1)
	rec := doc.Recommendations["A"][0]
	assert.Equal(t, "Competitive", rec.Category)
	assert.Contains(t, rec.Recommendation, "Learn from B")
	assert.Contains(t, rec.Recommendation, "Performance & Reliability")

	// The top performer receives no competitive entries.
	assert.Empty(t, doc.Recommendations["B"])
}

func TestEngine_DocumentRoundTrip(t *testing.T) {
	e := newTestEngine(t)

	reviews := driverScenarioReviews("X")
	for i := 0; i < 12; i++ {
		sentiment := common.SentimentNeutral
		rating := 3
		if i < 5 {
			sentiment = common.SentimentNegative
			rating = 1
		}
		reviews = append(reviews, mkReview(
			fmt.Sprintf("y-%02d", i), "Y", rating, sentiment,
			"login never works, otp never arrives",
			"Access & Login"))
	}

	doc, _, err := e.Run(context.Background(), reviews)
	require.NoError(t, err)

	// Y: 12 reviews, 41.7% negative, avg (5*1+7*3)/12 = 2.17 → pain point.
	require.Len(t, doc.PainPoints["Y"], 1)
	assert.InDelta(t, 41.7, doc.PainPoints["Y"][0].NegativePct, 1e-9)
	require.NotEmpty(t, doc.Recommendations["Y"])
	assert.Equal(t, "Streamline login and authentication process", doc.Recommendations["Y"][0].Recommendation)
	assert.Contains(t, doc.Recommendations["Y"][0].Rationale, "41.7")

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var decoded insight.Document
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, doc.RunID, decoded.RunID)
	assert.Equal(t, doc.Drivers, decoded.Drivers)
	assert.Equal(t, doc.PainPoints, decoded.PainPoints)
	assert.Equal(t, doc.Comparison, decoded.Comparison)
	assert.Equal(t, doc.Recommendations, decoded.Recommendations)
}
