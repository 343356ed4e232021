// Package insight defines the analytical output model of the platform: theme
// statistics, driver/pain-point classifications, entity comparisons, and
// synthesized recommendations, bundled into a persistable document.
package insight

import (
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// ThemeStat is the aggregated sentiment profile of one (entity, theme) pair.
// Percentages are unrounded here; rounding happens at the output boundary.
type ThemeStat struct {
	Entity        string   `json:"entity"`
	Theme         string   `json:"theme"`
	Total         int      `json:"total"`
	PositiveCount int      `json:"positive_count"`
	NegativeCount int      `json:"negative_count"`
	PositivePct   float64  `json:"positive_pct"`
	NegativePct   float64  `json:"negative_pct"`
	AvgRating     float64  `json:"avg_rating"`
	PositiveTexts []string `json:"positive_texts,omitempty"`
	NegativeTexts []string `json:"negative_texts,omitempty"`
}

// Driver is a (entity, theme) pair that cleared the driver thresholds.
type Driver struct {
	Theme       string   `json:"theme"`
	PositivePct float64  `json:"positive_pct"`
	AvgRating   float64  `json:"avg_rating"`
	ReviewCount int      `json:"review_count"`
	Evidence    []string `json:"evidence"`
}

// PainPoint is a (entity, theme) pair that cleared the pain-point thresholds.
type PainPoint struct {
	Theme       string   `json:"theme"`
	NegativePct float64  `json:"negative_pct"`
	AvgRating   float64  `json:"avg_rating"`
	ReviewCount int      `json:"review_count"`
	Evidence    []string `json:"evidence"`
}

// ThemeCount is one entry of an entity's ranked theme list.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// Comparison is the per-entity summary used for cross-entity reporting and as
// the peer context for competitive-gap recommendations.
type Comparison struct {
	TotalReviews int     `json:"total_reviews"`
	AvgRating    float64 `json:"avg_rating"`
	PositivePct  float64 `json:"positive_pct"`
	NegativePct  float64 `json:"negative_pct"`

	// RatingDistribution maps star rating (as string, for JSON) to count.
	RatingDistribution map[string]int `json:"rating_distribution"`

	// TopThemes is the ranked theme list, highest mention count first. A
	// slice rather than a map so ranking order survives serialization.
	TopThemes []ThemeCount `json:"top_themes"`
}

// Recommendation is one synthesized improvement suggestion for an entity.
type Recommendation struct {
	Priority       common.Priority `json:"priority"`
	Category       string          `json:"category"`
	Recommendation string          `json:"recommendation"`
	Rationale      string          `json:"rationale"`
	Actions        []string        `json:"actions"`

	// Theme is the theme the recommendation addresses. Used for
	// competitive-gap deduplication; serialized for traceability.
	Theme string `json:"theme,omitempty"`
}

// Document is the complete output of one analysis run: the four sections of
// the downstream contract plus run metadata.
type Document struct {
	RunID       uuid.UUID `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Drivers         map[string][]Driver         `json:"drivers"`
	PainPoints      map[string][]PainPoint      `json:"pain_points"`
	Comparison      map[string]Comparison       `json:"comparison"`
	Recommendations map[string][]Recommendation `json:"recommendations"`
}

// RunStatus is the lifecycle state of an analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records the metadata of one analysis run.
type Run struct {
	ID           uuid.UUID `json:"id"`
	Status       RunStatus `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
	ReviewCount  int       `json:"review_count"`
	SkippedCount int       `json:"skipped_count"`
	Error        string    `json:"error,omitempty"`
}

// NewDocument returns an empty Document with a fresh run ID and all four
// section maps allocated.
func NewDocument() *Document {
	return &Document{
		RunID:           uuid.New(),
		GeneratedAt:     time.Now().UTC(),
		Drivers:         make(map[string][]Driver),
		PainPoints:      make(map[string][]PainPoint),
		Comparison:      make(map[string]Comparison),
		Recommendations: make(map[string][]Recommendation),
	}
}

// Entities returns every entity name mentioned in any section.
func (d *Document) Entities() []string {
	seen := make(map[string]struct{})
	for e := range d.Comparison {
		seen[e] = struct{}{}
	}
	for e := range d.Drivers {
		seen[e] = struct{}{}
	}
	for e := range d.PainPoints {
		seen[e] = struct{}{}
	}
	for e := range d.Recommendations {
		seen[e] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	return out
}
