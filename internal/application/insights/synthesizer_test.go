package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

func defaultSynthesizer() *Synthesizer {
	return NewSynthesizer(config.NewDefaultConfig().Analytics)
}

func TestSynthesizer_PainPointTemplates(t *testing.T) {
	s := defaultSynthesizer()
	recs := s.Synthesize(
		[]string{"Y"},
		map[string][]insight.Driver{},
		map[string][]insight.PainPoint{
			"Y": {{Theme: "Access & Login", NegativePct: 41.7, AvgRating: 2.6, ReviewCount: 12}},
		},
		map[string]insight.Comparison{"Y": {AvgRating: 2.6}},
	)

	require.Len(t, recs["Y"], 1)
	rec := recs["Y"][0]
	assert.Equal(t, common.PriorityHigh, rec.Priority)
	assert.Equal(t, "Security & UX", rec.Category)
	assert.Equal(t, "Streamline login and authentication process", rec.Recommendation)
	assert.Contains(t, rec.Rationale, "41.7")
	assert.Contains(t, rec.Rationale, "Access & Login")
	assert.Len(t, rec.Actions, 4)
}

func TestSynthesizer_PerformanceRationaleCitesRating(t *testing.T) {
	s := defaultSynthesizer()
	recs := s.Synthesize(
		[]string{"X"},
		map[string][]insight.Driver{},
		map[string][]insight.PainPoint{
			"X": {{Theme: "Performance & Reliability", NegativePct: 55.0, AvgRating: 2.1, ReviewCount: 40}},
		},
		map[string]insight.Comparison{"X": {AvgRating: 2.5}},
	)

	require.Len(t, recs["X"], 1)
	rec := recs["X"][0]
	assert.Equal(t, common.PriorityHigh, rec.Priority)
	assert.Equal(t, "Technical", rec.Category)
	assert.Contains(t, rec.Rationale, "avg rating 2.1")
}

func TestSynthesizer_UnknownThemeFallsBackToGeneric(t *testing.T) {
	s := defaultSynthesizer()
	recs := s.Synthesize(
		[]string{"X"},
		map[string][]insight.Driver{},
		map[string][]insight.PainPoint{
			"X": {{Theme: "Branch Network", NegativePct: 35.0, AvgRating: 2.4, ReviewCount: 15}},
		},
		map[string]insight.Comparison{"X": {AvgRating: 2.9}},
	)

	require.Len(t, recs["X"], 1)
	rec := recs["X"][0]
	assert.Equal(t, common.PriorityMedium, rec.Priority)
	assert.Equal(t, "General", rec.Category)
	assert.Equal(t, "Address Branch Network concerns", rec.Recommendation)
	assert.Len(t, rec.Actions, 3)
}

func TestSynthesizer_CompetitiveGap(t *testing.T) {
	s := defaultSynthesizer()
	drivers := map[string][]insight.Driver{
		"B": {{Theme: "User Experience", PositivePct: 80.0, AvgRating: 4.4, ReviewCount: 50}},
	}
	comparison := map[string]insight.Comparison{
		"A": {AvgRating: 3.0},
		"B": {AvgRating: 3.5},
	}

	recs := s.Synthesize([]string{"A", "B"}, drivers, map[string][]insight.PainPoint{}, comparison)

	require.Len(t, recs["A"], 1)
	rec := recs["A"][0]
	assert.Equal(t, common.PriorityMedium, rec.Priority)
	assert.Equal(t, "Competitive", rec.Category)
	assert.Equal(t, "Learn from B: Improve User Experience", rec.Recommendation)
	assert.Contains(t, rec.Rationale, "80.0% positive sentiment")
	assert.Len(t, rec.Actions, 3)

	// B outranks everyone, so it receives no competitive entries.
	assert.Empty(t, recs["B"])
}

func TestSynthesizer_GapExactlyAtThresholdExcluded(t *testing.T) {
	s := defaultSynthesizer()
	drivers := map[string][]insight.Driver{
		"B": {{Theme: "User Experience", PositivePct: 80.0, AvgRating: 4.4, ReviewCount: 50}},
	}
	comparison := map[string]insight.Comparison{
		"A": {AvgRating: 3.2},
		"B": {AvgRating: 3.5}, // gap exactly 0.3: not strictly greater
	}

	recs := s.Synthesize([]string{"A", "B"}, drivers, map[string][]insight.PainPoint{}, comparison)
	assert.Empty(t, recs["A"])
}

func TestSynthesizer_PainPointsPrecedeCompetitiveAndCapAtFive(t *testing.T) {
	s := defaultSynthesizer()
	painPoints := map[string][]insight.PainPoint{
		"A": {
			{Theme: "Access & Login", NegativePct: 50.0, AvgRating: 2.0, ReviewCount: 30},
			{Theme: "Performance & Reliability", NegativePct: 45.0, AvgRating: 2.2, ReviewCount: 30},
			{Theme: "Customer Support", NegativePct: 40.0, AvgRating: 2.4, ReviewCount: 30},
			{Theme: "User Experience", NegativePct: 35.0, AvgRating: 2.6, ReviewCount: 30}, // beyond top-3
		},
	}
	drivers := map[string][]insight.Driver{
		"B": {
			{Theme: "Transactions & Payments", PositivePct: 85.0, AvgRating: 4.6, ReviewCount: 60},
			{Theme: "Features & Functionality", PositivePct: 82.0, AvgRating: 4.5, ReviewCount: 55},
		},
		"C": {
			{Theme: "User Experience", PositivePct: 78.0, AvgRating: 4.3, ReviewCount: 40},
		},
	}
	comparison := map[string]insight.Comparison{
		"A": {AvgRating: 2.5},
		"B": {AvgRating: 4.0},
		"C": {AvgRating: 3.9},
	}

	recs := s.Synthesize([]string{"A", "B", "C"}, drivers, painPoints, comparison)
	got := recs["A"]
	require.Len(t, got, 5)

	// Only the top-3 pain points are templated, in rank order.
	assert.Equal(t, "Access & Login", got[0].Theme)
	assert.Equal(t, "Performance & Reliability", got[1].Theme)
	assert.Equal(t, "Customer Support", got[2].Theme)

	// Competitive entries follow, in peer/driver order.
	assert.Equal(t, "Competitive", got[3].Category)
	assert.Equal(t, "Transactions & Payments", got[3].Theme)
	assert.Equal(t, "Features & Functionality", got[4].Theme)
}

func TestSynthesizer_CompetitiveDedupeAgainstExistingThemes(t *testing.T) {
	s := defaultSynthesizer()
	painPoints := map[string][]insight.PainPoint{
		"A": {{Theme: "User Experience", NegativePct: 40.0, AvgRating: 2.5, ReviewCount: 20}},
	}
	drivers := map[string][]insight.Driver{
		"B": {{Theme: "User Experience", PositivePct: 88.0, AvgRating: 4.7, ReviewCount: 70}},
	}
	comparison := map[string]insight.Comparison{
		"A": {AvgRating: 2.8},
		"B": {AvgRating: 4.2},
	}

	recs := s.Synthesize([]string{"A", "B"}, drivers, painPoints, comparison)
	require.Len(t, recs["A"], 1)
	// The peer's driver theme already has a pain-point recommendation.
	assert.Equal(t, "Design", recs["A"][0].Category)
}

func TestSynthesizer_PeersSharingDriverThemeEachEmitEntry(t *testing.T) {
	s := defaultSynthesizer()
	drivers := map[string][]insight.Driver{
		"B": {{Theme: "User Experience", PositivePct: 85.0, AvgRating: 4.5, ReviewCount: 60}},
		"C": {{Theme: "User Experience", PositivePct: 78.0, AvgRating: 4.3, ReviewCount: 40}},
	}
	comparison := map[string]insight.Comparison{
		"A": {AvgRating: 3.0},
		"B": {AvgRating: 4.2},
		"C": {AvgRating: 4.0},
	}

	// Dedupe only applies against pain-point themes: two qualifying peers
	// with the same top driver theme both contribute.
	recs := s.Synthesize([]string{"A", "B", "C"}, drivers, map[string][]insight.PainPoint{}, comparison)
	require.Len(t, recs["A"], 2)
	assert.Equal(t, "Learn from B: Improve User Experience", recs["A"][0].Recommendation)
	assert.Equal(t, "Learn from C: Improve User Experience", recs["A"][1].Recommendation)
}

func TestSynthesizer_WholeRatingKeepsOneDecimal(t *testing.T) {
	s := defaultSynthesizer()
	recs := s.Synthesize(
		[]string{"X"},
		map[string][]insight.Driver{},
		map[string][]insight.PainPoint{
			"X": {{Theme: "Performance & Reliability", NegativePct: 48.0, AvgRating: 2.0, ReviewCount: 25}},
		},
		map[string]insight.Comparison{"X": {AvgRating: 2.4}},
	)

	require.Len(t, recs["X"], 1)
	assert.Contains(t, recs["X"][0].Rationale, "avg rating 2.0")

	assert.Equal(t, "3.0", formatRating(3.0))
	assert.Equal(t, "2.6", formatRating(2.6))
	assert.Equal(t, "4.25", formatRating(4.25))
}
