package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CX-Insight/pkg/types/common"
)

func validReview() *Review {
	return &Review{
		ID:             "gp-0001",
		Entity:         "Commercial Bank of Ethiopia",
		Rating:         4,
		Text:           "Great app, transfers are fast!",
		Sentiment:      common.SentimentPositive,
		SentimentScore: 0.94,
	}
}

func TestReview_Validate(t *testing.T) {
	require.NoError(t, validReview().Validate())

	tests := []struct {
		name   string
		mutate func(*Review)
	}{
		{"missing id", func(r *Review) { r.ID = " " }},
		{"missing entity", func(r *Review) { r.Entity = "" }},
		{"rating too low", func(r *Review) { r.Rating = 0 }},
		{"rating too high", func(r *Review) { r.Rating = 6 }},
		{"bad sentiment", func(r *Review) { r.Sentiment = "mixed" }},
		{"score out of range", func(r *Review) { r.SentimentScore = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReview()
			tt.mutate(r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestReview_Tokens_Fallback(t *testing.T) {
	r := validReview()
	r.Text = "App crashes, constantly! (Very slow)"
	assert.Equal(t, []string{"app", "crashes", "constantly", "very", "slow"}, r.Tokens())
}

func TestReview_Tokens_PrefersProcessed(t *testing.T) {
	r := validReview()
	r.ProcessedTokens = []string{"app", "crash", "slow"}
	assert.Equal(t, []string{"app", "crash", "slow"}, r.Tokens())
}

func TestReview_ThemeString(t *testing.T) {
	r := validReview()
	r.Themes = []string{"User Experience", "Access & Login", "User Experience"}
	assert.Equal(t, "Access & Login|User Experience", r.ThemeString())
}
