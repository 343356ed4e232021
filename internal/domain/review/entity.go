// Package review defines the labeled customer review aggregate and its
// repository contract. Reviews arrive already sentiment-labeled by an
// upstream scoring service; this module stores and validates them.
package review

import (
	"strings"
	"time"

	"github.com/turtacn/CX-Insight/pkg/errors"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// Review is a single labeled customer review.
type Review struct {
	// ID is the upstream review identifier; unique per source.
	ID string `json:"review_id"`

	// Entity is the display name of the reviewed entity.
	Entity string `json:"entity"`

	// Rating is the star rating, 1..5.
	Rating int `json:"rating"`

	// Text is the raw review text.
	Text string `json:"text"`

	// Sentiment is the upstream label.
	Sentiment common.Sentiment `json:"sentiment"`

	// SentimentScore is the upstream model confidence in [0, 1].
	SentimentScore float64 `json:"sentiment_score"`

	// ProcessedTokens is the normalized token stream (lower-cased,
	// lemmatized, stop words removed) produced by the upstream NLP
	// pipeline. Optional; Tokens falls back to naive tokenization.
	ProcessedTokens []string `json:"tokens,omitempty"`

	// Themes are the assigned theme names, set by the tagging stage. The
	// persisted form is the sorted "|"-joined string.
	Themes []string `json:"themes,omitempty"`

	// IngestedAt is when the review entered the store.
	IngestedAt time.Time `json:"ingested_at,omitempty"`
}

// Validate checks the review's structural invariants.
func (r *Review) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New(errors.ErrCodeReviewMalformed, "review id is required")
	}
	if strings.TrimSpace(r.Entity) == "" {
		return errors.New(errors.ErrCodeReviewMalformed, "review entity is required").
			WithDetail("review_id=" + r.ID)
	}
	if r.Rating < 1 || r.Rating > 5 {
		return errors.Newf(errors.ErrCodeReviewMalformed,
			"review rating %d is out of range [1, 5]", r.Rating).
			WithDetail("review_id=" + r.ID)
	}
	if !r.Sentiment.IsValid() {
		return errors.Newf(errors.ErrCodeReviewMalformed,
			"review sentiment %q is not one of positive|neutral|negative", r.Sentiment).
			WithDetail("review_id=" + r.ID)
	}
	if r.SentimentScore < 0 || r.SentimentScore > 1 {
		return errors.Newf(errors.ErrCodeReviewMalformed,
			"review sentiment_score %.3f is out of range [0, 1]", r.SentimentScore).
			WithDetail("review_id=" + r.ID)
	}
	return nil
}

// Tokens returns the token stream the theme tagger matches keywords against.
// When the upstream NLP pipeline supplied ProcessedTokens those are used
// verbatim; otherwise the raw text is lower-cased, whitespace-split, and
// stripped of surrounding punctuation.
func (r *Review) Tokens() []string {
	if len(r.ProcessedTokens) > 0 {
		return r.ProcessedTokens
	}
	raw := strings.Fields(strings.ToLower(r.Text))
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, ".,!?;:\"'()[]{}")
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ThemeString returns the persisted theme representation: deduplicated,
// sorted, "|"-joined.
func (r *Review) ThemeString() string {
	return common.JoinThemes(r.Themes)
}
