package dispatch_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/sighting-registry/internal/dispatch"
	"github.com/pkordes/sighting-registry/internal/domain"
)

type greet struct{ Name string }

type shout struct{ Name string }

func newDispatcher(t *testing.T) (*dispatch.Dispatcher, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return dispatch.New(log, dispatch.NewMetrics(reg)), reg
}

func requireName(_ context.Context, g greet) []domain.FieldError {
	if g.Name == "" {
		return []domain.FieldError{{Field: "name", Message: "name is required"}}
	}
	return nil
}

func maxLen(_ context.Context, g greet) []domain.FieldError {
	if len(g.Name) > 3 || g.Name == "" {
		return []domain.FieldError{{Field: "name", Message: "name must be 1-3 characters"}}
	}
	return nil
}

func TestSend_RoutesToHandler(t *testing.T) {
	d, _ := newDispatcher(t)
	dispatch.Register(d, func(_ context.Context, g greet) (string, error) {
		return "hi " + g.Name, nil
	})

	got, err := dispatch.Send[greet, string](context.Background(), d, greet{Name: "Bo"})

	require.NoError(t, err)
	assert.Equal(t, "hi Bo", got)
}

func TestSend_CollectsEveryValidatorFailure(t *testing.T) {
	d, _ := newDispatcher(t)
	called := false
	dispatch.Register(d, func(_ context.Context, g greet) (string, error) {
		called = true
		return "", nil
	}, requireName, maxLen)

	_, err := dispatch.Send[greet, string](context.Background(), d, greet{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2, "both validators run even after the first fails")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, called, "handler must not run when validation fails")
}

func TestSend_HandlerErrorPropagatesUnchanged(t *testing.T) {
	d, _ := newDispatcher(t)
	want := fmt.Errorf("service.X.Op: %w", domain.ErrConflict)
	dispatch.Register(d, func(context.Context, greet) (string, error) { return "", want })

	_, err := dispatch.Send[greet, string](context.Background(), d, greet{Name: "a"})

	assert.Same(t, want, err)
}

func TestSend_Unregistered(t *testing.T) {
	d, _ := newDispatcher(t)

	_, err := dispatch.Send[shout, string](context.Background(), d, shout{})

	assert.ErrorIs(t, err, dispatch.ErrNoHandler)
}

func TestSend_WrongResultType(t *testing.T) {
	d, _ := newDispatcher(t)
	dispatch.Register(d, func(context.Context, greet) (string, error) { return "", nil })

	_, err := dispatch.Send[greet, int](context.Background(), d, greet{Name: "a"})

	assert.ErrorIs(t, err, dispatch.ErrNoHandler)
}

func TestRegister_DuplicatePanics(t *testing.T) {
	d, _ := newDispatcher(t)
	h := func(context.Context, greet) (string, error) { return "", nil }
	dispatch.Register(d, h)

	assert.Panics(t, func() { dispatch.Register(d, h) })
}

func TestSend_CancelledContextSkipsHandler(t *testing.T) {
	d, _ := newDispatcher(t)
	dispatch.Register(d, func(context.Context, greet) (string, error) {
		t.Fatal("handler must not run")
		return "", nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dispatch.Send[greet, string](ctx, d, greet{Name: "a"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSend_RecordsOutcomeMetrics(t *testing.T) {
	d, reg := newDispatcher(t)
	dispatch.Register(d, func(_ context.Context, g greet) (string, error) {
		if g.Name == "x" {
			return "", domain.ErrNotFound
		}
		return "", nil
	}, requireName)

	ctx := context.Background()
	_, _ = dispatch.Send[greet, string](ctx, d, greet{Name: "a"})
	_, _ = dispatch.Send[greet, string](ctx, d, greet{Name: "x"})
	_, _ = dispatch.Send[greet, string](ctx, d, greet{})

	count, err := promtest.GatherAndCount(reg, "sighting_registry_dispatch_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "one series per outcome")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, dispatch.OutcomeOK, dispatch.Outcome(nil))
	assert.Equal(t, dispatch.OutcomeValidation, dispatch.Outcome(&domain.ValidationError{}))
	assert.Equal(t, dispatch.OutcomeNotFound, dispatch.Outcome(fmt.Errorf("x: %w", domain.ErrNotFound)))
	assert.Equal(t, dispatch.OutcomeUnsupportedMedia, dispatch.Outcome(domain.ErrUnsupportedMedia))
	assert.Equal(t, dispatch.OutcomeCancelled, dispatch.Outcome(context.DeadlineExceeded))
	assert.Equal(t, dispatch.OutcomeError, dispatch.Outcome(errors.New("boom")))
}
