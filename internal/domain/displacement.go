package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Displacement is an engine size in cubic centimetres, restricted to a
// closed set of values.
type Displacement int

const (
	Cc50   Displacement = 50
	Cc110  Displacement = 110
	Cc125  Displacement = 125
	Cc150  Displacement = 150
	Cc200  Displacement = 200
	Cc250  Displacement = 250
	Cc300  Displacement = 300
	Cc500  Displacement = 500
	Cc650  Displacement = 650
	Cc750  Displacement = 750
	Cc1000 Displacement = 1000
	Cc1200 Displacement = 1200
)

// Displacements lists every accepted value in ascending order.
var Displacements = []Displacement{
	Cc50, Cc110, Cc125, Cc150, Cc200, Cc250, Cc300, Cc500, Cc650, Cc750, Cc1000, Cc1200,
}

// IsValid reports whether d is one of Displacements.
func (d Displacement) IsValid() bool {
	for _, v := range Displacements {
		if v == d {
			return true
		}
	}
	return false
}

// Label renders the value with a "cc" suffix, e.g. "650cc".
func (d Displacement) Label() string {
	return strconv.Itoa(int(d)) + "cc"
}

// ParseDisplacement accepts "650", "650cc" or "Cc650" (any case).
func ParseDisplacement(s string) (Displacement, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "cc"), "cc")
	n, err := strconv.Atoi(raw)
	if err != nil || !Displacement(n).IsValid() {
		return 0, fmt.Errorf("%w: unknown engine displacement %q", ErrValidation, s)
	}
	return Displacement(n), nil
}

// UnmarshalJSON accepts a number, a numeric string or the "Cc650" form.
// Numbers are not range-checked here so the validation pipeline can report them.
func (d *Displacement) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Displacement(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: engine displacement must be a number or string", ErrValidation)
	}
	v, err := ParseDisplacement(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
