// Package kafka provides the review ingestion consumer and the run-event
// producer over segmentio/kafka-go.
package kafka

// Topic names. Reviews arrive from upstream collectors on TopicReviews;
// completed analysis runs are announced on TopicRunEvents for downstream
// report/visualization consumers.
const (
	TopicReviews   = "cxi.reviews"
	TopicRunEvents = "cxi.insight-runs"
)
