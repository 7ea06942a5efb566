// Package dispatch routes typed requests to their handlers.
//
// Each request type is registered once at startup with exactly one handler
// and any number of validators. Send runs every validator, and only when
// all of them pass does it call the handler. The dispatcher itself holds no
// business logic and never retries.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/pkordes/sighting-registry/internal/domain"
)

// ErrNoHandler is returned by Send when no handler matches the request type
// and result type.
var ErrNoHandler = errors.New("no handler registered")

// HandlerFunc handles one request type.
type HandlerFunc[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Validator checks one request and returns every failed rule, or nil.
type Validator[Req any] func(ctx context.Context, req Req) []domain.FieldError

type route[Req, Res any] struct {
	handle     HandlerFunc[Req, Res]
	validators []Validator[Req]
}

// Dispatcher is a registry of request type to handler.
// Registration happens before the first Send; the registry is read-only afterwards.
type Dispatcher struct {
	routes  map[reflect.Type]any
	metrics *Metrics
	log     *slog.Logger
}

// New returns an empty Dispatcher. metrics may be nil.
func New(log *slog.Logger, metrics *Metrics) *Dispatcher {
	return &Dispatcher{
		routes:  make(map[reflect.Type]any),
		metrics: metrics,
		log:     log,
	}
}

// Register binds h and validators to the request type Req.
// It panics if Req already has a handler.
func Register[Req, Res any](d *Dispatcher, h HandlerFunc[Req, Res], validators ...Validator[Req]) {
	t := reflect.TypeFor[Req]()
	if _, dup := d.routes[t]; dup {
		panic(fmt.Sprintf("dispatch: handler for %s already registered", t))
	}
	d.routes[t] = route[Req, Res]{handle: h, validators: validators}
}

// Send validates req and passes it to its handler. Validation failures
// return a *domain.ValidationError carrying every failed rule, and the
// handler is not called. Handler errors are returned unchanged.
func Send[Req, Res any](ctx context.Context, d *Dispatcher, req Req) (Res, error) {
	var zero Res
	name := requestName(reflect.TypeFor[Req]())

	entry, ok := d.routes[reflect.TypeFor[Req]()]
	if !ok {
		return zero, fmt.Errorf("dispatch.Send: %w for %s", ErrNoHandler, name)
	}
	r, ok := entry.(route[Req, Res])
	if !ok {
		return zero, fmt.Errorf("dispatch.Send: %w for %s returning %s", ErrNoHandler, name, reflect.TypeFor[Res]())
	}

	start := time.Now()
	res, err := r.send(ctx, req)
	d.observe(ctx, name, time.Since(start), err)
	return res, err
}

func (r route[Req, Res]) send(ctx context.Context, req Req) (Res, error) {
	var zero Res
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var failed []domain.FieldError
	for _, v := range r.validators {
		failed = append(failed, v(ctx, req)...)
	}
	if len(failed) > 0 {
		return zero, &domain.ValidationError{Fields: failed}
	}
	return r.handle(ctx, req)
}

func (d *Dispatcher) observe(ctx context.Context, name string, elapsed time.Duration, err error) {
	outcome := Outcome(err)
	d.metrics.observe(name, outcome, elapsed)

	if outcome == OutcomeError {
		d.log.ErrorContext(ctx, "request failed", "request", name, "error", err)
		return
	}
	d.log.DebugContext(ctx, "request dispatched",
		"request", name,
		"outcome", outcome,
		"duration_ms", elapsed.Milliseconds(),
	)
}

func requestName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
