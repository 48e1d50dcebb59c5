// Package metrics holds the Prometheus collectors for map generation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded by GenerationsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

var (
	GenerationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realmmap_generations_total",
		Help: "Map generation runs by outcome",
	}, []string{"outcome"})
	GenerationDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "realmmap_generation_duration_ms",
		Help:    "Full generation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
	StageDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "realmmap_stage_duration_ms",
		Help:    "Generation stage duration in milliseconds",
		Buckets: []float64{0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"stage"})
	GeometryRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realmmap_geometry_retries_total",
		Help: "Province partitions retried after a degenerate geometry",
	})
	PlacementExhaustedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "realmmap_placement_exhausted_total",
		Help: "Provinces that received fewer locations than their quota",
	})
	Entities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "realmmap_entities",
		Help: "Entity counts of the currently published map",
	}, []string{"kind"})
	StoreOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "realmmap_store_operations_total",
		Help: "Snapshot store operations by op and result",
	}, []string{"op", "result"})
)

func init() {
	prometheus.MustRegister(GenerationsTotal)
	prometheus.MustRegister(GenerationDurationMs)
	prometheus.MustRegister(StageDurationMs)
	prometheus.MustRegister(GeometryRetriesTotal)
	prometheus.MustRegister(PlacementExhaustedTotal)
	prometheus.MustRegister(Entities)
	prometheus.MustRegister(StoreOpsTotal)
}

// SetEntities publishes the entity counts of a map.
func SetEntities(provinces, locations, roads, forestPoints int) {
	Entities.WithLabelValues("provinces").Set(float64(provinces))
	Entities.WithLabelValues("locations").Set(float64(locations))
	Entities.WithLabelValues("roads").Set(float64(roads))
	Entities.WithLabelValues("forest_points").Set(float64(forestPoints))
}

// Handler serves the registered collectors.
func Handler() http.Handler { return promhttp.Handler() }
