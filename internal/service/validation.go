package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/sighting-registry/internal/dispatch"
	"github.com/pkordes/sighting-registry/internal/domain"
)

// Rules evaluates the struct-tag rules declared on request types. Every
// rule runs; failures are collected, not short-circuited.
type Rules struct {
	v   *validator.Validate
	now func() time.Time
}

// NewRules builds the rule set. now drives the "maxyear" rule.
func NewRules(now func() time.Time) *Rules {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	r := &Rules{v: v, now: now}
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "maxyear", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(r.maxYear())
	})
	mustRegister(v, "displacement", func(fl validator.FieldLevel) bool {
		return domain.Displacement(fl.Field().Int()).IsValid()
	})
	return r
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("service: register rule %q: %v", tag, err))
	}
}

func (r *Rules) maxYear() int {
	return r.now().UTC().Year() + 1
}

// Struct returns a dispatch.Validator that applies the tag rules of Req.
func Struct[Req any](r *Rules) dispatch.Validator[Req] {
	return func(ctx context.Context, req Req) []domain.FieldError {
		err := r.v.StructCtx(ctx, req)
		if err == nil {
			return nil
		}
		var fes validator.ValidationErrors
		if !errors.As(err, &fes) {
			return []domain.FieldError{{Field: "", Message: err.Error()}}
		}
		out := make([]domain.FieldError, 0, len(fes))
		for _, fe := range fes {
			field := fieldPath(fe.Namespace())
			out = append(out, domain.FieldError{Field: field, Message: r.message(fe, field)})
		}
		return out
	}
}

// fieldPath drops the leading struct name: "CreateCamera.location.city" → "location.city".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func (r *Rules) message(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "maxyear":
		return fmt.Sprintf("%s must not be later than %d", field, r.maxYear())
	case "displacement":
		return fmt.Sprintf("%s must be one of %s", field, displacementList())
	default:
		return field + " is invalid"
	}
}

func displacementList() string {
	parts := make([]string, len(domain.Displacements))
	for i, d := range domain.Displacements {
		parts[i] = fmt.Sprint(int(d))
	}
	return strings.Join(parts, ", ")
}

// bodyIDMatches rejects an update whose body names a different motorcycle
// than the URL.
func bodyIDMatches(_ context.Context, req UpdateMotorcycle) []domain.FieldError {
	if req.BodyID != nil && *req.BodyID != req.ID {
		return []domain.FieldError{{Field: "id", Message: "id in body does not match id in URL"}}
	}
	return nil
}

// imageAttached requires the photograph on create. Uploads are checked by
// the image store policy, not by tag rules.
func imageAttached(_ context.Context, req CreateSighting) []domain.FieldError {
	if req.Image == nil {
		return []domain.FieldError{{Field: "imageFile", Message: "imageFile is required"}}
	}
	return nil
}

// rangeOrdered rejects a report range whose start falls after its end.
func rangeOrdered[Req interface{ dates() ReportRange }](_ context.Context, req Req) []domain.FieldError {
	if _, err := req.dates().dateRange(); err != nil {
		return []domain.FieldError{{Field: "startDate", Message: "startDate must not be after endDate"}}
	}
	return nil
}

func (r ReportRange) dates() ReportRange { return r }

// Decoded reports the fields the transport could not parse, then the
// failures of rules that do not name one of those fields. A field that
// failed to parse is left zero, so its own tag rules would only repeat it.
func Decoded[Req interface{ undecoded() []domain.FieldError }](rules ...dispatch.Validator[Req]) dispatch.Validator[Req] {
	return func(ctx context.Context, req Req) []domain.FieldError {
		bad := req.undecoded()
		skip := make(map[string]bool, len(bad))
		for _, fe := range bad {
			skip[fe.Field] = true
		}
		out := append([]domain.FieldError(nil), bad...)
		for _, rule := range rules {
			for _, fe := range rule(ctx, req) {
				if !skip[fe.Field] {
					out = append(out, fe)
				}
			}
		}
		return out
	}
}
