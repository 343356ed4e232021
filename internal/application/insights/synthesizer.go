package insights

import (
	"github.com/turtacn/CX-Insight/internal/config"
	"github.com/turtacn/CX-Insight/internal/domain/insight"
)

// Synthesizer produces per-entity improvement recommendations from the
// classified pain points, the classified drivers of peer entities, and the
// cross-entity comparison map. It must only run after classification and
// comparison have completed for every entity.
type Synthesizer struct {
	painPointRecs int
	peerDrivers   int
	maxRecs       int
	gap           float64
}

// NewSynthesizer builds a Synthesizer from the analytics configuration.
func NewSynthesizer(cfg config.AnalyticsConfig) *Synthesizer {
	return &Synthesizer{
		painPointRecs: cfg.PainPointRecommendations,
		peerDrivers:   cfg.PeerDrivers,
		maxRecs:       cfg.MaxRecommendations,
		gap:           cfg.CompetitiveGap,
	}
}

// Synthesize builds the recommendation list for every entity. Pain-point
// recommendations come first in pain-point rank order, then competitive-gap
// entries in peer iteration order; the combined list is truncated to the
// configured maximum. Peer iteration follows the entities slice, so callers
// must pass a stable ordering.
func (s *Synthesizer) Synthesize(
	entities []string,
	drivers map[string][]insight.Driver,
	painPoints map[string][]insight.PainPoint,
	comparison map[string]insight.Comparison,
) map[string][]insight.Recommendation {
	out := make(map[string][]insight.Recommendation, len(entities))
	for _, entity := range entities {
		out[entity] = s.forEntity(entity, entities, drivers, painPoints, comparison)
	}
	return out
}

func (s *Synthesizer) forEntity(
	entity string,
	entities []string,
	drivers map[string][]insight.Driver,
	painPoints map[string][]insight.PainPoint,
	comparison map[string]insight.Comparison,
) []insight.Recommendation {
	recs := make([]insight.Recommendation, 0, s.maxRecs)

	pps := painPoints[entity]
	if len(pps) > s.painPointRecs {
		pps = pps[:s.painPointRecs]
	}
	for _, pp := range pps {
		recs = append(recs, recommendationForPainPoint(pp))
	}

	// A peer qualifies when its mean rating exceeds ours by strictly more
	// than the configured gap. A gap of exactly the threshold does not
	// qualify. Borrowed driver themes are deduplicated against the
	// pain-point recommendations above only, not against each other: two
	// qualifying peers sharing a top driver theme yield two entries.
	painRecs := recs[:len(recs):len(recs)]
	own := comparison[entity].AvgRating
	for _, peer := range entities {
		if peer == entity {
			continue
		}
		if comparison[peer].AvgRating <= own+s.gap {
			continue
		}
		peerDrivers := drivers[peer]
		if len(peerDrivers) > s.peerDrivers {
			peerDrivers = peerDrivers[:s.peerDrivers]
		}
		for _, d := range peerDrivers {
			if hasTheme(painRecs, d.Theme) {
				continue
			}
			recs = append(recs, recommendationForGap(peer, d))
		}
	}

	if len(recs) > s.maxRecs {
		recs = recs[:s.maxRecs]
	}
	return recs
}

func hasTheme(recs []insight.Recommendation, theme string) bool {
	for _, r := range recs {
		if r.Theme == theme {
			return true
		}
	}
	return false
}
