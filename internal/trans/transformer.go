// Package trans implements the mesh-indexed bilinear correction engine: forward
// coordinate transformation, the legacy approximate backward transformation and
// a verified backward transformation with a guaranteed error bound.
package trans

import (
	"errors"
	"fmt"
	"math"

	"datumtrans-api/internal/mesh"
	"datumtrans-api/internal/models"
)

// ErrNotConverged reports that the verified backward transformation exhausted
// its iteration budget without meeting the error criteria.
var ErrNotConverged = errors.New("trans: backward transformation did not converge")

// ParameterNotFoundError reports a cell corner with no entry in the parameter
// table: the point lies outside the table's coverage.
type ParameterNotFoundError struct {
	Meshcode int
	Corner   string
}

func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("trans: parameter not found for meshcode %d (%s corner)", e.Meshcode, e.Corner)
}

// Parameter is one parameter table entry: the correction at a mesh node.
// Latitude and longitude are in arc-seconds, not degrees; altitude is in meters.
// Components a format does not carry are zero, never NaN.
type Parameter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Horizontal returns the horizontal magnitude sqrt(lat^2 + lng^2) in arc-seconds.
func (p Parameter) Horizontal() float64 {
	return math.Hypot(p.Latitude, p.Longitude)
}

// Correction is an interpolated correction vector ready to be added to a point:
// latitude and longitude in degrees, altitude in meters.
type Correction struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Horizontal returns the horizontal magnitude sqrt(lat^2 + lng^2) in degrees.
func (c Correction) Horizontal() float64 {
	return math.Hypot(c.Latitude, c.Longitude)
}

const (
	// secToDegree converts arc-second parameters to degrees.
	secToDegree = 3600.0

	// backwardOffset is the nominal offset of the approximate backward
	// transformation, 12 arc-seconds. The legacy desktop tool and the public
	// web API both use this constant.
	backwardOffset = 1.0 / 300

	// criteria bounds the residual of the verified backward transformation,
	// slightly inside the 2.7e-9 deg error of the distributed parameters.
	criteria = 2.5e-9

	// maxIteration caps the Newton iteration of BackwardSafe.
	maxIteration = 4
)

// Transformer transforms points between geodetic reference frames using a
// parameter table. It is immutable after construction and safe for concurrent
// use.
type Transformer struct {
	// Unit is the mesh unit of the parameter grid.
	Unit mesh.Unit
	// Format is the parameter file format the table was built from, if known.
	Format Format
	// Parameter maps meshcode to the correction parameter at that node.
	Parameter map[int]Parameter
	// Description is free text carried along with the table.
	Description string
}

// New builds a Transformer after validating the unit.
func New(unit mesh.Unit, parameter map[int]Parameter, description string) (*Transformer, error) {
	if unit != mesh.UnitOne && unit != mesh.UnitFive {
		return nil, fmt.Errorf("trans: unit must be 1 or 5, got %d", unit)
	}
	return &Transformer{Unit: unit, Parameter: parameter, Description: description}, nil
}

// bilinear interpolates on the unit square:
// sw(1-x)(1-y) + se x(1-y) + nw (1-x)y + ne xy.
// This form is statistically more precise than the expanded polynomial.
func bilinear(sw, se, nw, ne, y, x float64) float64 {
	return sw*(1-x)*(1-y) + se*x*(1-y) + nw*(1-x)*y + ne*x*y
}

// quadruple fetches the parameters of the four cell corners, failing on the
// first absent corner. Absent corners are never substituted by zero.
func (t *Transformer) quadruple(cell mesh.Cell) (sw, se, nw, ne Parameter, err error) {
	var ok bool
	if sw, ok = t.Parameter[cell.SouthWest.Meshcode()]; !ok {
		return sw, se, nw, ne, &ParameterNotFoundError{cell.SouthWest.Meshcode(), "south-west"}
	}
	if se, ok = t.Parameter[cell.SouthEast.Meshcode()]; !ok {
		return sw, se, nw, ne, &ParameterNotFoundError{cell.SouthEast.Meshcode(), "south-east"}
	}
	if nw, ok = t.Parameter[cell.NorthWest.Meshcode()]; !ok {
		return sw, se, nw, ne, &ParameterNotFoundError{cell.NorthWest.Meshcode(), "north-west"}
	}
	if ne, ok = t.Parameter[cell.NorthEast.Meshcode()]; !ok {
		return sw, se, nw, ne, &ParameterNotFoundError{cell.NorthEast.Meshcode(), "north-east"}
	}
	return sw, se, nw, ne, nil
}

// ForwardCorrection returns the correction applied by the forward
// transformation at the position.
func (t *Transformer) ForwardCorrection(latitude, longitude float64) (Correction, error) {
	cell, err := mesh.CellFromPos(latitude, longitude, t.Unit)
	if err != nil {
		return Correction{}, err
	}
	sw, se, nw, ne, err := t.quadruple(cell)
	if err != nil {
		return Correction{}, err
	}

	y, x := cell.Position(latitude, longitude)
	return Correction{
		Latitude:  bilinear(sw.Latitude, se.Latitude, nw.Latitude, ne.Latitude, y, x) / secToDegree,
		Longitude: bilinear(sw.Longitude, se.Longitude, nw.Longitude, ne.Longitude, y, x) / secToDegree,
		Altitude:  bilinear(sw.Altitude, se.Altitude, nw.Altitude, ne.Altitude, y, x),
	}, nil
}

// backwardCorrection returns the correction of the approximate backward
// transformation: two fixed-point passes seeded by the nominal offset.
func (t *Transformer) backwardCorrection(latitude, longitude float64) (Correction, error) {
	lat, lng := latitude-backwardOffset, longitude+backwardOffset
	if lat < 0 {
		return Correction{}, fmt.Errorf("trans: latitude %v is too small for the backward offset", latitude)
	}

	corr, err := t.ForwardCorrection(lat, lng)
	if err != nil {
		return Correction{}, err
	}

	lat, lng = latitude-corr.Latitude, longitude-corr.Longitude
	if lat < 0 {
		return Correction{}, fmt.Errorf("trans: latitude %v is too small for the backward offset", latitude)
	}

	corr, err = t.ForwardCorrection(lat, lng)
	if err != nil {
		return Correction{}, err
	}
	return Correction{-corr.Latitude, -corr.Longitude, -corr.Altitude}, nil
}

// backwardCorrectionSafe returns the correction of the verified backward
// transformation by Newton iteration on the horizontal residual. The cell is
// re-resolved on every evaluation, so candidates may cross cell boundaries.
func (t *Transformer) backwardCorrectionSafe(latitude, longitude float64) (Correction, error) {
	// Local derivative scale of the bilinear surface, grid steps per degree.
	kLat, kLng := 120.0, 80.0
	if t.Unit == mesh.UnitFive {
		kLat, kLng = 24.0, 16.0
	}

	// Seed with the approximate backward estimate where it is computable; its
	// valid domain is slightly smaller than the table's near latitude zero.
	yn, xn := latitude, longitude
	if corr, err := t.backwardCorrection(latitude, longitude); err == nil {
		yn, xn = latitude+corr.Latitude, longitude+corr.Longitude
	}

	for i := 0; i < maxIteration; i++ {
		cell, err := mesh.CellFromPos(yn, xn, t.Unit)
		if err != nil {
			return Correction{}, err
		}
		sw, se, nw, ne, err := t.quadruple(cell)
		if err != nil {
			return Correction{}, err
		}
		y, x := cell.Position(yn, xn)

		corrY := bilinear(sw.Latitude, se.Latitude, nw.Latitude, ne.Latitude, y, x) / secToDegree
		corrX := bilinear(sw.Longitude, se.Longitude, nw.Longitude, ne.Longitude, y, x) / secToDegree

		// Residual of the forward transformation at the candidate.
		fy := latitude - (yn + corrY)
		fx := longitude - (xn + corrX)
		if math.Abs(fy) <= criteria && math.Abs(fx) <= criteria {
			alt := bilinear(sw.Altitude, se.Altitude, nw.Altitude, ne.Altitude, y, x)
			return Correction{-corrY, -corrX, -alt}, nil
		}

		// Jacobian of the residual from the within-cell derivative of the
		// bilinear surface.
		fxx := -1 - ((se.Longitude-sw.Longitude)*(1-y)+(ne.Longitude-nw.Longitude)*y)*kLng/secToDegree
		fxy := -((nw.Longitude-sw.Longitude)*(1-x) + (ne.Longitude-se.Longitude)*x) * kLat / secToDegree
		fyx := -((se.Latitude-sw.Latitude)*(1-y) + (ne.Latitude-nw.Latitude)*y) * kLng / secToDegree
		fyy := -1 - ((nw.Latitude-sw.Latitude)*(1-x)+(ne.Latitude-se.Latitude)*x)*kLat/secToDegree

		det := fxx*fyy - fxy*fyx
		xn -= (fyy*fx - fxy*fy) / det
		yn -= (fxx*fy - fyx*fx) / det
	}

	return Correction{}, fmt.Errorf("%w: %d iterations from (%v, %v)", ErrNotConverged, maxIteration, latitude, longitude)
}

// Forward transforms the point from the source frame to the target frame.
func (t *Transformer) Forward(p models.Point) (models.Point, error) {
	corr, err := t.ForwardCorrection(p.Latitude, p.Longitude)
	if err != nil {
		return models.Point{}, err
	}
	return models.Point{
		Latitude:  p.Latitude + corr.Latitude,
		Longitude: p.Longitude + corr.Longitude,
		Altitude:  p.Altitude + corr.Altitude,
	}, nil
}

// Backward transforms the point from the target frame back to the source frame
// using the approximate scheme of the legacy desktop tool. The residual error
// against the exact inverse of Forward reaches about 1e-9 deg horizontally and
// 1e-5 m on altitude; use BackwardSafe for a verified bound.
func (t *Transformer) Backward(p models.Point) (models.Point, error) {
	corr, err := t.backwardCorrection(p.Latitude, p.Longitude)
	if err != nil {
		return models.Point{}, err
	}
	return models.Point{
		Latitude:  p.Latitude + corr.Latitude,
		Longitude: p.Longitude + corr.Longitude,
		Altitude:  p.Altitude + corr.Altitude,
	}, nil
}

// BackwardCompat transforms the point backward with the approximate scheme of
// the public web transformation service. The service and the legacy desktop
// tool agree on the nominal offset, so the result matches Backward; the
// operation is kept distinct because its compatibility target is.
func (t *Transformer) BackwardCompat(p models.Point) (models.Point, error) {
	return t.Backward(p)
}

// BackwardSafe transforms the point backward, guaranteeing that the forward
// transformation of the result is within 2.7e-9 deg of p on latitude and
// longitude (about 1e-5 m on altitude). It fails with ErrNotConverged when the
// parameter surface defeats the iteration.
func (t *Transformer) BackwardSafe(p models.Point) (models.Point, error) {
	corr, err := t.backwardCorrectionSafe(p.Latitude, p.Longitude)
	if err != nil {
		return models.Point{}, err
	}
	return models.Point{
		Latitude:  p.Latitude + corr.Latitude,
		Longitude: p.Longitude + corr.Longitude,
		Altitude:  p.Altitude + corr.Altitude,
	}, nil
}

// Transform dispatches to Forward or the approximate Backward. The verified
// backward transformation is a distinct operation and is not reachable here.
func (t *Transformer) Transform(p models.Point, backward bool) (models.Point, error) {
	if backward {
		return t.Backward(p)
	}
	return t.Forward(p)
}
