// Package generate runs the full map pipeline: provinces, locations, roads
// and forests, followed by an integrity check of the assembled map.
package generate

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ChicagoDave/realmmap/pkg/forest"
	"github.com/ChicagoDave/realmmap/pkg/metrics"
	"github.com/ChicagoDave/realmmap/pkg/placement"
	"github.com/ChicagoDave/realmmap/pkg/province"
	"github.com/ChicagoDave/realmmap/pkg/realm"
	"github.com/ChicagoDave/realmmap/pkg/roads"
	"github.com/ChicagoDave/realmmap/pkg/validation"
)

// namespace scopes map IDs derived from generation parameters.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ChicagoDave/realmmap"))

// ParamsError is returned when the parameters fail schema validation.
type ParamsError struct {
	Report *validation.Report
}

func (e *ParamsError) Error() string {
	if len(e.Report.Errors) == 0 {
		return "invalid generation parameters"
	}
	first := e.Report.Errors[0]
	return fmt.Sprintf("invalid generation parameters: %s: %s (%s)", first.Path, first.Message, e.Report.Summary)
}

// Result is a successful generation.
type Result struct {
	Map      *realm.Map
	Report   *validation.Report
	Duration time.Duration
}

// MapID derives the map ID from its parameters, so equal inputs produce
// equal IDs.
func MapID(p realm.Params) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding params for map id: %w", err)
	}
	return uuid.NewSHA1(namespace, data).String(), nil
}

// NewSeed returns a random seed for callers that did not pick one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Run generates a map from p. It checks ctx between stages and returns no
// map on cancellation or failure.
func Run(ctx context.Context, p realm.Params) (*Result, error) {
	start := time.Now()
	log := slog.Default().With("seed", p.Seed)

	res, err := run(ctx, p, log)
	elapsed := time.Since(start)
	metrics.GenerationDurationMs.Observe(float64(elapsed.Microseconds()) / 1000)

	var perr *ParamsError
	switch {
	case err == nil:
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	case errors.As(err, &perr):
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
	default:
		metrics.GenerationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	}
	if err != nil {
		log.Warn("generation failed", "error", err, "duration", elapsed)
		return nil, err
	}

	res.Duration = elapsed
	log.Info("generation complete",
		"map_id", res.Map.ID,
		"provinces", len(res.Map.Provinces),
		"locations", len(res.Map.Locations),
		"roads", len(res.Map.Roads),
		"forest_points", res.Map.ForestPoints(),
		"warnings", len(res.Report.Warnings),
		"duration", elapsed,
	)
	return res, nil
}

func run(ctx context.Context, p realm.Params, log *slog.Logger) (*Result, error) {
	report := validation.ValidateSchema(p)
	if !report.Valid {
		return nil, &ParamsError{Report: report}
	}

	id, err := MapID(p)
	if err != nil {
		return nil, err
	}
	m := &realm.Map{ID: id, Seed: p.Seed, Area: p.Area(), Params: p}

	if err := stage(ctx, log, "provinces", func() error {
		provinces, r, err := province.Generate(m.Area, p.Provinces, p.Seed, province.OptionsFromParams(p))
		report.Merge(r)
		if r != nil {
			metrics.GeometryRetriesTotal.Add(float64(len(r.WithCode(validation.CodeGeometryRetry))))
		}
		m.Provinces = provinces
		return err
	}); err != nil {
		return nil, err
	}

	if err := stage(ctx, log, "locations", func() error {
		locations, r := placement.Place(m.Provinces, placement.OptionsFromParams(p), p.Seed)
		report.Merge(r)
		exhausted := r.WithCode(validation.CodePlacementExhausted)
		metrics.PlacementExhaustedTotal.Add(float64(len(exhausted)))
		for _, w := range exhausted {
			log.Warn("placement exhausted", "province", w.Path, "detail", w.Message)
		}
		m.Locations = locations
		return nil
	}); err != nil {
		return nil, err
	}

	if err := stage(ctx, log, "roads", func() error {
		network, r := roads.Build(m.Locations, roads.OptionsFromParams(p))
		report.Merge(r)
		m.Roads = network
		return nil
	}); err != nil {
		return nil, err
	}

	if err := stage(ctx, log, "forests", func() error {
		forests, r := forest.Scatter(m.Provinces, m.Locations, m.Roads, p.Forest, p.Seed)
		report.Merge(r)
		m.Forests = forests
		return nil
	}); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelIntegrity,
			Message: err.Error(),
		})
		return nil, fmt.Errorf("generated map failed integrity check: %w", err)
	}
	return &Result{Map: m, Report: report}, nil
}

// stage runs fn after checking ctx and records its duration.
func stage(ctx context.Context, log *slog.Logger, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("before %s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.StageDurationMs.WithLabelValues(name).Observe(float64(elapsed.Microseconds()) / 1000)
	if err != nil {
		return fmt.Errorf("%s stage: %w", name, err)
	}
	log.Debug("stage complete", "stage", name, "duration", elapsed)
	return nil
}
