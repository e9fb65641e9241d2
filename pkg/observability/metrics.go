package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	StepsEntered    *prometheus.CounterVec
	Resolutions     *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
	Effects         *prometheus.CounterVec
	Unwinds         *prometheus.CounterVec
	UndoneActions   prometheus.Counter
	ToursEnded      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg registers nothing, which is handy for tests that read the collectors directly.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepsEntered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_steps_entered_total",
				Help: "Total number of walkthrough steps entered",
			},
			[]string{"tour_id", "kind"},
		),
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_resolutions_total",
				Help: "Anchor resolutions by outcome",
			},
			[]string{"tour_id", "succeeded"},
		),
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "waypoint_resolve_duration_seconds",
				Help:    "Time from step entry to resolution outcome",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"tour_id"},
		),
		Effects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_effects_total",
				Help: "Side effect applies and undos by outcome",
			},
			[]string{"op", "ok"},
		),
		Unwinds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_unwinds_total",
				Help: "Backward unwinds by outcome",
			},
			[]string{"tour_id", "quit"},
		),
		UndoneActions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "waypoint_undone_actions_total",
				Help: "Side effects reverted during unwinds",
			},
		),
		ToursEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waypoint_tours_ended_total",
				Help: "Sessions that reached a terminal status",
			},
			[]string{"tour_id", "status"},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.StepsEntered,
			m.Resolutions,
			m.ResolveDuration,
			m.Effects,
			m.Unwinds,
			m.UndoneActions,
			m.ToursEnded,
		)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			m.StepsEntered.WithLabelValues(e.TourID, e.Kind).Inc()
		},
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) {
			m.Resolutions.WithLabelValues(e.TourID, strconv.FormatBool(e.Succeeded)).Inc()
			m.ResolveDuration.WithLabelValues(e.TourID).Observe(e.Duration.Seconds())
		},
		OnEffect: func(_ context.Context, e *domain.EffectEvent) {
			m.Effects.WithLabelValues(string(e.Op), strconv.FormatBool(e.OK)).Inc()
		},
		OnUnwind: func(_ context.Context, e *domain.UnwindEvent) {
			m.Unwinds.WithLabelValues(e.TourID, strconv.FormatBool(e.Quit)).Inc()
			m.UndoneActions.Add(float64(e.Undone))
		},
		OnTourEnd: func(_ context.Context, e *domain.TourEvent) {
			m.ToursEnded.WithLabelValues(e.TourID, string(e.Status)).Inc()
		},
	}
}
