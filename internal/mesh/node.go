package mesh

import "fmt"

// maxMeshcode is one past the largest encodable meshcode (8 decimal digits).
const maxMeshcode = 100_00_00_00

// Node is a mesh node: a grid intersection addressed by a latitude and a
// longitude Coord. The longitude must not exceed Coord{80, 0, 0} (180 deg).
type Node struct {
	Latitude  Coord
	Longitude Coord
}

// NewNode validates the longitude bound and returns the node.
func NewNode(latitude, longitude Coord) (Node, error) {
	if longitude.First > 80 || (longitude.First == 80 && (longitude.Second > 0 || longitude.Third > 0)) {
		return Node{}, fmt.Errorf("mesh: longitude coord must not exceed Coord(80, 0, 0), got %v", longitude)
	}
	return Node{Latitude: latitude, Longitude: longitude}, nil
}

// NodeFromMeshcode decodes a meshcode into the node it identifies.
// It is the inverse of Node.Meshcode.
func NodeFromMeshcode(code int) (Node, error) {
	if code < 0 || maxMeshcode <= code {
		return Node{}, fmt.Errorf("mesh: meshcode must be 0 to %d, got %d", maxMeshcode-1, code)
	}

	latFirst, rest := code/100_00_00, code%100_00_00
	lngFirst, rest := rest/100_00, rest%100_00
	latSecond, rest := rest/10_00, rest%10_00
	lngSecond, rest := rest/100, rest%100
	latThird, lngThird := rest/10, rest%10

	latitude, err := NewCoord(latFirst, latSecond, latThird)
	if err != nil {
		return Node{}, fmt.Errorf("mesh: invalid meshcode %d: %w", code, err)
	}
	longitude, err := NewCoord(lngFirst, lngSecond, lngThird)
	if err != nil {
		return Node{}, fmt.Errorf("mesh: invalid meshcode %d: %w", code, err)
	}
	return NewNode(latitude, longitude)
}

// NodeFromPos returns the nearest south-west node of the position on the given unit.
func NodeFromPos(latitude, longitude float64, unit Unit) (Node, error) {
	lat, err := CoordFromLatitude(latitude, unit)
	if err != nil {
		return Node{}, err
	}
	lng, err := CoordFromLongitude(longitude, unit)
	if err != nil {
		return Node{}, err
	}
	return NewNode(lat, lng)
}

// Meshcode encodes the node as an up-to-8-digit meshcode.
// It is the inverse of NodeFromMeshcode.
func (n Node) Meshcode() int {
	return (n.Latitude.First*100+n.Longitude.First)*10_000 +
		(n.Latitude.Second*10+n.Longitude.Second)*100 +
		(n.Latitude.Third*10 + n.Longitude.Third)
}

// IsUnit reports whether both coordinates are addressable on the given unit.
func (n Node) IsUnit(unit Unit) bool {
	return n.Latitude.IsUnit(unit) && n.Longitude.IsUnit(unit)
}

// Position returns the latitude and longitude of the node in decimal degrees.
func (n Node) Position() (latitude, longitude float64) {
	return n.Latitude.Latitude(), n.Longitude.Longitude()
}

func (n Node) String() string {
	return fmt.Sprintf("Node(%v, %v)", n.Latitude, n.Longitude)
}
