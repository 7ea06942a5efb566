package domain

import (
	"fmt"
	"time"
)

// DateRange is an inclusive range of UTC calendar dates. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NewDateRange truncates both bounds to their UTC date and rejects a start
// that falls after the end.
func NewDateRange(start, end *time.Time) (DateRange, error) {
	r := DateRange{Start: utcDate(start), End: utcDate(end)}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return DateRange{}, fmt.Errorf("%w: startDate must not be after endDate", ErrValidation)
	}
	return r, nil
}

// Bounds returns the half-open instant interval [from, until) covering the
// range. Either result is nil when that side is unbounded.
func (r DateRange) Bounds() (from, until *time.Time) {
	if r.Start != nil {
		f := *r.Start
		from = &f
	}
	if r.End != nil {
		u := r.End.AddDate(0, 0, 1)
		until = &u
	}
	return from, until
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	from, until := r.Bounds()
	if from != nil && t.Before(*from) {
		return false
	}
	if until != nil && !t.Before(*until) {
		return false
	}
	return true
}

// Key is a stable string form of the range, used for cache keys.
func (r DateRange) Key() string {
	const layout = "2006-01-02"
	s, e := "*", "*"
	if r.Start != nil {
		s = r.Start.Format(layout)
	}
	if r.End != nil {
		e = r.End.Format(layout)
	}
	return s + ".." + e
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	d := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// CameraCount is one row of the sightings-by-camera report.
type CameraCount struct {
	CameraName string
	Count      int
}

// BrandCount is one row of the sightings-by-brand report.
type BrandCount struct {
	BrandName string
	Count     int
}

// DisplacementCount is one row of the sightings-by-engine-displacement report.
type DisplacementCount struct {
	Displacement Displacement
	Count        int
	DisplayLabel string
}
