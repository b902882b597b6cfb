package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_outcomes_total",
			Help: "Recommendation responses by outcome (matched, relaxed, empty).",
		},
		[]string{"outcome"},
	)

	RelaxationStepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_relaxation_steps_total",
			Help: "Number of must-have tokens dropped by the relaxation ladder.",
		},
	)

	PersonalizationFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_personalization_fallbacks_total",
			Help: "Requests that proceeded with neutral bias because personalization failed, by operation.",
		},
		[]string{"operation"},
	)

	FeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_feedback_events_total",
			Help: "Count of recommendation feedback events by action.",
		},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(
		RecommendOutcomesTotal,
		RelaxationStepsTotal,
		PersonalizationFallbacksTotal,
		FeedbackEventsTotal,
	)
}
