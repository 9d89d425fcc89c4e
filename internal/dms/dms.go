// Package dms converts angles between decimal degrees and the packed
// DDDMMSS.SSS... sexagesimal notation used by the parameter distribution
// services.
package dms

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DMS is an angle in degree-minute-second notation. Sign is 1 or -1 and
// applies to the whole angle; Degree, Minute and Second are non-negative,
// with Minute and Second below 60. Fract is the fractional second in [0, 1).
type DMS struct {
	Sign   int
	Degree int
	Minute int
	Second int
	Fract  float64
}

// New validates the components and returns the angle.
func New(sign, degree, minute, second int, fract float64) (DMS, error) {
	if sign != 1 && sign != -1 {
		return DMS{}, fmt.Errorf("dms: sign must be 1 or -1, got %d", sign)
	}
	if degree < 0 || 180 < degree {
		return DMS{}, fmt.Errorf("dms: degree must be 0 to 180, got %d", degree)
	}
	if minute < 0 || 59 < minute {
		return DMS{}, fmt.Errorf("dms: minute must be 0 to 59, got %d", minute)
	}
	if second < 0 || 59 < second {
		return DMS{}, fmt.Errorf("dms: second must be 0 to 59, got %d", second)
	}
	if fract < 0 || 1 <= fract || math.IsNaN(fract) {
		return DMS{}, fmt.Errorf("dms: fract must be 0 or more and less than 1, got %v", fract)
	}
	return DMS{Sign: sign, Degree: degree, Minute: minute, Second: second, Fract: fract}, nil
}

// FromDD converts decimal degrees to DMS notation.
func FromDD(v float64) (DMS, error) {
	if math.IsNaN(v) || v < -180 || 180 < v {
		return DMS{}, fmt.Errorf("dms: degree must be -180 to 180, got %v", v)
	}

	sign := 1
	if math.Signbit(v) {
		sign = -1
	}
	a := math.Abs(v)

	degree := int(math.Floor(a))
	minute := int(math.Floor(60*a)) - 60*degree
	second := int(math.Floor(3600*a)) - 3600*degree - 60*minute
	fract := 3600*a - math.Floor(3600*a)

	return DMS{Sign: sign, Degree: degree, Minute: minute, Second: second, Fract: fract}, nil
}

// DD returns the angle in decimal degrees.
func (d DMS) DD() float64 {
	return float64(d.Sign) * (float64(d.Degree) + float64(d.Minute)/60 + (float64(d.Second)+d.Fract)/3600)
}

// fraction returns the digits after the decimal point, "0" for a whole second.
func (d DMS) fraction() string {
	s := strconv.FormatFloat(d.Fract, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return "0"
}

// String packs the angle as DDDMMSS.SSS... with no zero padding on the leading
// group. The decimal point and at least one fractional digit are always
// present, so that Parse round-trips.
func (d DMS) String() string {
	var b strings.Builder
	if d.Sign < 0 {
		b.WriteByte('-')
	}
	switch {
	case d.Degree != 0:
		fmt.Fprintf(&b, "%d%02d%02d", d.Degree, d.Minute, d.Second)
	case d.Minute != 0:
		fmt.Fprintf(&b, "%d%02d", d.Minute, d.Second)
	default:
		fmt.Fprintf(&b, "%d", d.Second)
	}
	b.WriteByte('.')
	b.WriteString(d.fraction())
	return b.String()
}

// Primed formats the angle with degree, prime and double-prime marks, for
// human-readable output. Leading zero groups are omitted.
func (d DMS) Primed() string {
	var b strings.Builder
	if d.Sign < 0 {
		b.WriteByte('-')
	}
	switch {
	case d.Degree != 0:
		fmt.Fprintf(&b, "%d°%02d′%02d", d.Degree, d.Minute, d.Second)
	case d.Minute != 0:
		fmt.Fprintf(&b, "%d′%02d", d.Minute, d.Second)
	default:
		fmt.Fprintf(&b, "%d", d.Second)
	}
	b.WriteByte('.')
	b.WriteString(d.fraction())
	b.WriteString("″")
	return b.String()
}

// Parse reads the packed DDDMMSS.SSS... notation produced by String. A leading
// sign and a missing fractional part are accepted.
func Parse(s string) (DMS, error) {
	orig := s
	sign := 1
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = -1, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	integer, fraction := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		integer, fraction = s[:i], s[i+1:]
	}
	if integer == "" && fraction == "" {
		return DMS{}, fmt.Errorf("dms: parsing %q: no digits", orig)
	}
	for _, r := range integer {
		if r < '0' || '9' < r {
			return DMS{}, fmt.Errorf("dms: parsing %q: unexpected character %q", orig, r)
		}
	}

	var degree, minute, second int
	var err error
	switch n := len(integer); {
	case n == 0:
		// Fraction-only input such as ".5".
	case n <= 2:
		second, err = strconv.Atoi(integer)
	case n <= 4:
		minute, err = strconv.Atoi(integer[:n-2])
		if err == nil {
			second, err = strconv.Atoi(integer[n-2:])
		}
	default:
		degree, err = strconv.Atoi(integer[:n-4])
		if err == nil {
			minute, err = strconv.Atoi(integer[n-4 : n-2])
		}
		if err == nil {
			second, err = strconv.Atoi(integer[n-2:])
		}
	}
	if err != nil {
		return DMS{}, fmt.Errorf("dms: parsing %q: %w", orig, err)
	}

	fract := 0.0
	if fraction != "" {
		fract, err = strconv.ParseFloat("0."+fraction, 64)
		if err != nil {
			return DMS{}, fmt.Errorf("dms: parsing %q: %w", orig, err)
		}
	}

	d, err := New(sign, degree, minute, second, fract)
	if err != nil {
		return DMS{}, fmt.Errorf("dms: parsing %q: %w", orig, err)
	}
	return d, nil
}
