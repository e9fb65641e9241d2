package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
)

func TestChain_Contract(t *testing.T) {
	store := middleware.Chain(memory.NewStore(),
		middleware.NewLoggingMiddleware(slog.New(slog.DiscardHandler)),
		middleware.NewMetricsMiddleware(nil),
	)
	ports.RunProgressStoreContract(t, store)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.ProgressStore) ports.ProgressStore {
			calls = append(calls, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, calls, "wrapped innermost first")
}

func TestMetricsMiddleware(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	store := middleware.Chain(memory.NewStore(), middleware.NewMetricsMiddleware(reg))

	require.NoError(t, store.Save(ctx, "s1", &domain.Progress{SessionID: "s1", Status: domain.StatusActive}))
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	_, err = store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	count, err := testutil.GatherAndCount(reg, "waypoint_store_operation_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "save/ok, load/ok, load/not_found")
}

func TestLoggingMiddleware(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := middleware.Chain(memory.NewStore(), middleware.NewLoggingMiddleware(logger))

	require.NoError(t, store.Save(ctx, "s1", &domain.Progress{SessionID: "s1", Status: domain.StatusActive, StepIndex: 2}))
	_, err := store.Load(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	out := buf.String()
	assert.Contains(t, out, `msg="store save" session=s1 status=active step=2`)
	assert.Contains(t, out, `msg="store load" session=missing found=false`)
	assert.NotContains(t, out, "level=WARN")
}
