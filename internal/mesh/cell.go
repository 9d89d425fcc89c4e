package mesh

// Cell is a unit mesh cell: the four adjacent nodes bounding one grid square.
// The south-east and north-west corners are the south-west corner shifted one
// unit step east and north respectively, and the north-east corner both.
type Cell struct {
	SouthWest Node
	SouthEast Node
	NorthWest Node
	NorthEast Node
	Unit      Unit
}

// CellFromNode returns the unit cell whose south-west corner is node.
func CellFromNode(node Node, unit Unit) (Cell, error) {
	nextLat, err := node.Latitude.NextUp(unit)
	if err != nil {
		return Cell{}, err
	}
	nextLng, err := node.Longitude.NextUp(unit)
	if err != nil {
		return Cell{}, err
	}

	southEast, err := NewNode(node.Latitude, nextLng)
	if err != nil {
		return Cell{}, err
	}
	northWest, err := NewNode(nextLat, node.Longitude)
	if err != nil {
		return Cell{}, err
	}
	northEast, err := NewNode(nextLat, nextLng)
	if err != nil {
		return Cell{}, err
	}

	return Cell{
		SouthWest: node,
		SouthEast: southEast,
		NorthWest: northWest,
		NorthEast: northEast,
		Unit:      unit,
	}, nil
}

// CellFromMeshcode returns the unit cell whose south-west corner is the node
// identified by the meshcode.
func CellFromMeshcode(code int, unit Unit) (Cell, error) {
	node, err := NodeFromMeshcode(code)
	if err != nil {
		return Cell{}, err
	}
	return CellFromNode(node, unit)
}

// CellFromPos returns the unit cell containing the position. A position on the
// north or east edge of the covered range belongs to the cell south-west of it
// by floor semantics; there is no extrapolation.
func CellFromPos(latitude, longitude float64, unit Unit) (Cell, error) {
	node, err := NodeFromPos(latitude, longitude, unit)
	if err != nil {
		return Cell{}, err
	}
	return CellFromNode(node, unit)
}

// Position returns the local cell coordinates (y, x) of the position: the
// fractional progress from the south-west corner northward and eastward. Both
// components lie in [0, 1) for positions inside the cell.
func (c Cell) Position(latitude, longitude float64) (y, x float64) {
	// The cell spans 1.5 times as much longitude as latitude in grid steps,
	// hence 120 = 1.5 * 80 at unit 1 and 24 = 1.5 * 16 at unit 5.
	lat := latitude - c.SouthWest.Latitude.Latitude()
	lng := longitude - c.SouthWest.Longitude.Longitude()
	if c.Unit == UnitOne {
		return 120 * lat, 80 * lng
	}
	return 24 * lat, 16 * lng
}
