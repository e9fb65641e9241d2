package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ports"
)

type metricsMiddleware struct {
	next     ports.ProgressStore
	duration *prometheus.HistogramVec
}

// NewMetricsMiddleware records the latency of every store call in
// waypoint_store_operation_seconds, labelled by operation and outcome.
// The histogram is registered with reg; a nil reg registers nothing.
func NewMetricsMiddleware(reg prometheus.Registerer) Middleware {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waypoint_store_operation_seconds",
			Help:    "Latency of progress store operations",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op", "outcome"},
	)
	if reg != nil {
		reg.MustRegister(duration)
	}
	return func(next ports.ProgressStore) ports.ProgressStore {
		return &metricsMiddleware{next: next, duration: duration}
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	m.duration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, sessionID string, progress *domain.Progress) error {
	start := time.Now()
	err := m.next.Save(ctx, sessionID, progress)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, sessionID string) (*domain.Progress, error) {
	start := time.Now()
	p, err := m.next.Load(ctx, sessionID)
	m.observe("load", start, err)
	return p, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, sessionID string) error {
	start := time.Now()
	err := m.next.Delete(ctx, sessionID)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.observe("list", start, err)
	return ids, err
}
