package insights

import (
	"fmt"

	"github.com/turtacn/CX-Insight/internal/domain/insight"
	"github.com/turtacn/CX-Insight/pkg/types/common"
)

// recTemplate is one fixed remediation template. Priority, category,
// statement, and action list are static per theme; only the rationale is
// parameterized with the pain point's measurements.
type recTemplate struct {
	priority       common.Priority
	category       string
	recommendation string
	actions        []string

	// withRating controls whether the rationale cites the average rating
	// in addition to the negative percentage.
	withRating bool
}

// painPointTemplates is the closed dispatch table keyed by exact theme name.
// Unknown themes fall through to genericTemplate.
var painPointTemplates = map[string]recTemplate{
	common.ThemePerformance: {
		priority:       common.PriorityHigh,
		category:       common.CategoryTechnical,
		recommendation: "Improve app stability and performance",
		withRating:     true,
		actions: []string{
			"Conduct comprehensive performance testing",
			"Optimize app startup time and response speed",
			"Fix reported crashes and freezing issues",
			"Implement better error handling and recovery",
		},
	},
	common.ThemeAccessLogin: {
		priority:       common.PriorityHigh,
		category:       common.CategorySecurityUX,
		recommendation: "Streamline login and authentication process",
		actions: []string{
			"Simplify login flow (reduce steps)",
			"Improve biometric authentication reliability",
			"Fix OTP delivery issues",
			"Add \"Remember me\" option for trusted devices",
		},
	},
	common.ThemeTransactions: {
		priority:       common.PriorityHigh,
		category:       common.CategoryCoreFunc,
		recommendation: "Enhance transaction reliability and user experience",
		actions: []string{
			"Improve transaction success rate",
			"Add transaction status notifications",
			"Simplify payment flow",
			"Add transaction history search and filters",
		},
	},
	common.ThemeSupport: {
		priority:       common.PriorityMedium,
		category:       common.CategoryService,
		recommendation: "Enhance customer support channels",
		actions: []string{
			"Add in-app chat support",
			"Reduce response time",
			"Improve support agent training",
			"Add FAQ section within app",
		},
	},
	common.ThemeUserExp: {
		priority:       common.PriorityMedium,
		category:       common.CategoryDesign,
		recommendation: "Improve app interface and navigation",
		actions: []string{
			"Redesign navigation for better intuitiveness",
			"Improve visual design consistency",
			"Add user customization options",
			"Conduct UX research and user testing",
		},
	},
}

var genericActions = []string{
	"Analyze specific complaints in detail",
	"Prioritize most common issues",
	"Develop targeted solutions",
}

// recommendationForPainPoint renders the template for one pain point.
func recommendationForPainPoint(p insight.PainPoint) insight.Recommendation {
	tpl, known := painPointTemplates[p.Theme]
	if !known {
		return insight.Recommendation{
			Priority:       common.PriorityMedium,
			Category:       common.CategoryGeneral,
			Recommendation: fmt.Sprintf("Address %s concerns", p.Theme),
			Rationale:      fmt.Sprintf("%s%% of reviews mention %s issues", formatPct(p.NegativePct), p.Theme),
			Actions:        genericActions,
			Theme:          p.Theme,
		}
	}

	rationale := fmt.Sprintf("%s%% of reviews mention %s issues", formatPct(p.NegativePct), p.Theme)
	if tpl.withRating {
		rationale = fmt.Sprintf("%s%% of reviews mention %s issues with avg rating %s",
			formatPct(p.NegativePct), p.Theme, formatRating(p.AvgRating))
	}
	return insight.Recommendation{
		Priority:       tpl.priority,
		Category:       tpl.category,
		Recommendation: tpl.recommendation,
		Rationale:      rationale,
		Actions:        tpl.actions,
		Theme:          p.Theme,
	}
}

// recommendationForGap renders a competitive-gap recommendation borrowing a
// peer entity's driver theme.
func recommendationForGap(peer string, d insight.Driver) insight.Recommendation {
	return insight.Recommendation{
		Priority:       common.PriorityMedium,
		Category:       common.CategoryCompetitive,
		Recommendation: fmt.Sprintf("Learn from %s: Improve %s", peer, d.Theme),
		Rationale:      fmt.Sprintf("%s has %s%% positive sentiment for %s", peer, formatPct(d.PositivePct), d.Theme),
		Actions: []string{
			fmt.Sprintf("Study %s's approach to %s", peer, d.Theme),
			"Adapt best practices to your app",
			"Conduct user research on this aspect",
		},
		Theme: d.Theme,
	}
}

// formatPct renders a percentage with one decimal place ("41.7", "30.0").
func formatPct(v float64) string { return fmt.Sprintf("%.1f", v) }

// formatRating renders an average rating with at least one decimal place
// ("3.0", "2.6", "4.25").
func formatRating(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
