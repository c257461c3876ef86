// Package metrics registers the Prometheus instruments for the
// extraction pipeline and ingestion.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExtractionsTotal counts completed extraction pipelines by outcome:
	// "ok", "document_rejected", "model_failed", "parse_failed".
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labtrack_extractions_total",
			Help: "Completed extraction pipelines by outcome.",
		},
		[]string{"outcome"},
	)

	// ModelInvocations counts successful vision-model invocations by the
	// model that produced the response, exposing how often the fallback
	// chain degrades past the preferred model.
	ModelInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labtrack_model_invocations_total",
			Help: "Successful vision model invocations by model.",
		},
		[]string{"model"},
	)

	// IngestedParameters counts per-record ingestion outcomes:
	// "added", "skipped", "error".
	IngestedParameters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labtrack_ingested_parameters_total",
			Help: "Lab parameter ingestion outcomes.",
		},
		[]string{"outcome"},
	)
)
