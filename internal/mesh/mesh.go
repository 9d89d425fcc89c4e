// Package mesh implements the standard Japanese regional mesh grid used by the
// gridded correction parameter distributions.
//
// A mesh coordinate addresses one axis of a grid node with three digits; a pair
// of mesh coordinates is a node, and a node maps one-to-one onto an up-to-8-digit
// meshcode. Only non-negative latitudes (0 to 66.666... deg) and longitudes from
// 100 to 180 deg are representable. On a unit-5 grid the third digit of every
// coordinate must be 0 or 5.
package mesh

import (
	"errors"
	"fmt"
	"math"
)

// Unit is the mesh unit: the approximate edge length of a grid cell in kilometers.
type Unit int

const (
	UnitOne  Unit = 1
	UnitFive Unit = 5
)

// ErrUnitAlignment reports a unit-5 operation on a coordinate whose third digit
// is neither 0 nor 5.
var ErrUnitAlignment = errors.New("mesh: unit 5 requires a third digit of 0 or 5")

func (u Unit) valid() bool {
	return u == UnitOne || u == UnitFive
}

// Coord is a mesh coordinate: the discrete latitude or longitude of a grid node.
//
// First takes 0 to 99, Second 0 to 7 and Third 0 to 9. At unit 1 consecutive
// third digits are 1/120 deg apart on the latitude axis and 1/80 deg apart on
// the longitude axis, making a unit cell roughly one kilometer square.
type Coord struct {
	First  int
	Second int
	Third  int
}

// NewCoord validates the digits and returns the coordinate.
func NewCoord(first, second, third int) (Coord, error) {
	if first < 0 || 99 < first {
		return Coord{}, fmt.Errorf("mesh: first digit must be 0 to 99, got %d", first)
	}
	if second < 0 || 7 < second {
		return Coord{}, fmt.Errorf("mesh: second digit must be 0 to 7, got %d", second)
	}
	if third < 0 || 9 < third {
		return Coord{}, fmt.Errorf("mesh: third digit must be 0 to 9, got %d", third)
	}
	return Coord{First: first, Second: second, Third: third}, nil
}

func coordFromDegree(value float64, unit Unit) Coord {
	integer := math.Floor(value)
	first := int(integer) % 100
	second := int(math.Floor(8*value)) - 8*int(integer)
	third := int(math.Floor(80*value)) - 80*int(integer) - 10*second

	if unit == UnitFive {
		if third < 5 {
			third = 0
		} else {
			third = 5
		}
	}
	return Coord{First: first, Second: second, Third: third}
}

// CoordFromLatitude returns the greatest Coord whose latitude does not exceed v.
// The latitude must satisfy 0.0 <= v < 66.666... deg.
func CoordFromLatitude(v float64, unit Unit) (Coord, error) {
	if !unit.valid() {
		return Coord{}, fmt.Errorf("mesh: unit must be 1 or 5, got %d", unit)
	}

	value := 3 * v / 2
	// Nudge values whose mantissa is odd so that
	// CoordFromLatitude(c.Latitude(), 1) == c holds exactly.
	if math.Float64bits(v)%2 == 1 {
		value = math.Nextafter(value, math.Inf(1))
	}

	if value < 0 || 100 <= value {
		return Coord{}, fmt.Errorf("mesh: latitude must be 0.0 or more and less than 66.666..., got %v", v)
	}
	return coordFromDegree(value, unit), nil
}

// CoordFromLongitude returns the greatest Coord whose longitude does not exceed v.
// The longitude must satisfy 100.0 <= v <= 180.0 deg.
func CoordFromLongitude(v float64, unit Unit) (Coord, error) {
	if !unit.valid() {
		return Coord{}, fmt.Errorf("mesh: unit must be 1 or 5, got %d", unit)
	}
	if v < 100 || 180 < v {
		return Coord{}, fmt.Errorf("mesh: longitude must be 100.0 to 180.0, got %v", v)
	}
	return coordFromDegree(v, unit), nil
}

func (c Coord) degree() float64 {
	return float64(c.First) + float64(c.Second)/8 + float64(c.Third)/80
}

// Latitude returns the latitude in decimal degrees that c encodes.
// It does not check that c actually represents a latitude.
func (c Coord) Latitude() float64 {
	return 2 * c.degree() / 3
}

// Longitude returns the longitude in decimal degrees that c encodes.
// It does not check that c actually represents a longitude.
func (c Coord) Longitude() float64 {
	return 100 + c.degree()
}

// IsUnit reports whether c is addressable on a grid of the given unit.
// Every coordinate is addressable at unit 1.
func (c Coord) IsUnit(unit Unit) bool {
	return c.Third%int(unit) == 0
}

// NextUp returns the smallest coordinate greater than c on the given unit.
func (c Coord) NextUp(unit Unit) (Coord, error) {
	if !unit.valid() {
		return Coord{}, fmt.Errorf("mesh: unit must be 1 or 5, got %d", unit)
	}
	if !c.IsUnit(unit) {
		return Coord{}, fmt.Errorf("%w, got third digit %d", ErrUnitAlignment, c.Third)
	}

	bound := 10 - int(unit)
	if c.Third == bound {
		if c.Second == 7 {
			if c.First == 99 {
				return Coord{}, fmt.Errorf("mesh: coord overflow incrementing %v", c)
			}
			return Coord{First: c.First + 1}, nil
		}
		return Coord{First: c.First, Second: c.Second + 1}, nil
	}
	return Coord{First: c.First, Second: c.Second, Third: c.Third + int(unit)}, nil
}

// NextDown returns the greatest coordinate less than c on the given unit.
func (c Coord) NextDown(unit Unit) (Coord, error) {
	if !unit.valid() {
		return Coord{}, fmt.Errorf("mesh: unit must be 1 or 5, got %d", unit)
	}
	if !c.IsUnit(unit) {
		return Coord{}, fmt.Errorf("%w, got third digit %d", ErrUnitAlignment, c.Third)
	}

	bound := 10 - int(unit)
	if c.Third == 0 {
		if c.Second == 0 {
			if c.First == 0 {
				return Coord{}, fmt.Errorf("mesh: coord underflow decrementing %v", c)
			}
			return Coord{First: c.First - 1, Second: 7, Third: bound}, nil
		}
		return Coord{First: c.First, Second: c.Second - 1, Third: bound}, nil
	}
	return Coord{First: c.First, Second: c.Second, Third: c.Third - int(unit)}, nil
}

func (c Coord) String() string {
	return fmt.Sprintf("Coord(%d, %d, %d)", c.First, c.Second, c.Third)
}
