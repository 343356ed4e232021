// Package report renders an insight document as a human-readable text
// report for analysts who don't consume the JSON contract directly.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
)

const lineWidth = 80

// Render writes the full text report for doc to w. Entities appear in sorted
// name order so repeated renders of the same document are byte-identical.
func Render(w io.Writer, doc *insight.Document) error {
	entities := doc.Entities()
	sort.Strings(entities)

	var b strings.Builder
	rule := strings.Repeat("=", lineWidth)
	sub := strings.Repeat("-", lineWidth)

	b.WriteString(rule + "\n")
	b.WriteString("CUSTOMER EXPERIENCE ANALYTICS - INSIGHTS REPORT\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("DRIVERS (Positive Aspects)\n")
	b.WriteString(sub + "\n\n")
	for _, entity := range entities {
		b.WriteString(entity + ":\n")
		drivers := doc.Drivers[entity]
		if len(drivers) == 0 {
			b.WriteString("  No significant drivers identified.\n\n")
			continue
		}
		for i, d := range drivers {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, d.Theme)
			fmt.Fprintf(&b, "     - Positive sentiment: %.1f%%\n", d.PositivePct)
			fmt.Fprintf(&b, "     - Average rating: %.2f/5.0\n", d.AvgRating)
			fmt.Fprintf(&b, "     - Reviews: %d\n", d.ReviewCount)
			if len(d.Evidence) > 0 {
				fmt.Fprintf(&b, "     - Sample: %q\n", truncate(d.Evidence[0], 100))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("PAIN POINTS (Negative Aspects)\n")
	b.WriteString(sub + "\n\n")
	for _, entity := range entities {
		b.WriteString(entity + ":\n")
		painPoints := doc.PainPoints[entity]
		if len(painPoints) == 0 {
			b.WriteString("  No significant pain points identified.\n\n")
			continue
		}
		for i, p := range painPoints {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, p.Theme)
			fmt.Fprintf(&b, "     - Negative sentiment: %.1f%%\n", p.NegativePct)
			fmt.Fprintf(&b, "     - Average rating: %.2f/5.0\n", p.AvgRating)
			fmt.Fprintf(&b, "     - Reviews: %d\n", p.ReviewCount)
			if len(p.Evidence) > 0 {
				fmt.Fprintf(&b, "     - Sample: %q\n", truncate(p.Evidence[0], 100))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("ENTITY COMPARISON\n")
	b.WriteString(sub + "\n\n")
	for _, entity := range entities {
		cmp, ok := doc.Comparison[entity]
		if !ok {
			continue
		}
		b.WriteString(entity + ":\n")
		fmt.Fprintf(&b, "  Total Reviews: %d\n", cmp.TotalReviews)
		fmt.Fprintf(&b, "  Average Rating: %.2f/5.0\n", cmp.AvgRating)
		fmt.Fprintf(&b, "  Positive Sentiment: %.1f%%\n", cmp.PositivePct)
		fmt.Fprintf(&b, "  Negative Sentiment: %.1f%%\n", cmp.NegativePct)
		names := make([]string, 0, len(cmp.TopThemes))
		for _, tc := range cmp.TopThemes {
			names = append(names, tc.Theme)
		}
		fmt.Fprintf(&b, "  Top Themes: %s\n\n", strings.Join(names, ", "))
	}

	b.WriteString("\n" + rule + "\n")
	b.WriteString("RECOMMENDATIONS\n")
	b.WriteString(sub + "\n\n")
	for _, entity := range entities {
		b.WriteString(entity + ":\n\n")
		for i, rec := range doc.Recommendations[entity] {
			fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, rec.Priority, rec.Recommendation)
			fmt.Fprintf(&b, "     Category: %s\n", rec.Category)
			fmt.Fprintf(&b, "     Rationale: %s\n", rec.Rationale)
			b.WriteString("     Actions:\n")
			for _, action := range rec.Actions {
				fmt.Fprintf(&b, "       - %s\n", action)
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
