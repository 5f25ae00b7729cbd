package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/deckflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "deckflow"

// Metrics records artifact generation in Prometheus collectors.
type Metrics struct {
	artifacts *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	slides    *prometheus.CounterVec
	inFlight  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifacts_total",
				Help:      "Total number of generated artifacts by outcome",
			},
			[]string{"workflow", "mode", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "artifact_duration_seconds",
				Help:      "Duration of artifact generation",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		slides: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "slides_rendered_total",
				Help:      "Total number of slides in successfully generated artifacts",
			},
			[]string{"workflow"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifacts_in_flight",
			Help:      "Artifacts currently being generated",
		}),
	}

	for _, c := range []prometheus.Collector{m.artifacts, m.duration, m.slides, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnArtifactStart: func(_ context.Context, _ *domain.ArtifactEvent) {
			m.inFlight.Inc()
		},
		OnArtifactDone: func(_ context.Context, e *domain.ArtifactEvent) {
			m.inFlight.Dec()

			result := "success"
			if e.Err != nil {
				result = "failure"
			} else {
				m.slides.WithLabelValues(e.Workflow).Add(float64(e.Steps))
			}
			m.artifacts.WithLabelValues(e.Workflow, string(e.Mode), result).Inc()
			m.duration.WithLabelValues(string(e.Mode)).Observe(e.Duration.Seconds())
		},
	}
}

// LoggingHooks logs artifact starts at debug and completions at info,
// or at error when the artifact failed.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnArtifactStart: func(ctx context.Context, e *domain.ArtifactEvent) {
			logger.DebugContext(ctx, "artifact_start",
				"run_id", e.RunID,
				"artifact", e.Artifact,
				"mode", e.Mode,
				"steps", e.Steps,
			)
		},
		OnArtifactDone: func(ctx context.Context, e *domain.ArtifactEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "artifact_failed",
					"run_id", e.RunID,
					"artifact", e.Artifact,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "artifact_done",
				"run_id", e.RunID,
				"artifact", e.Artifact,
				"duration", e.Duration,
			)
		},
	}
}
