package trans

import (
	"fmt"

	"datumtrans-api/internal/mesh"
)

// Format identifies the textual layout of a distributed parameter file.
type Format string

const (
	TKY2JGD     Format = "TKY2JGD"
	PatchJGD    Format = "PatchJGD"
	PatchJGDH   Format = "PatchJGD_H"
	PatchJGDHV  Format = "PatchJGD_HV"
	HyokoRev    Format = "HyokoRev"
	SemiDynaEXE Format = "SemiDynaEXE"
	GeonetF3    Format = "geonetF3"
	ITRF2014    Format = "ITRF2014"
)

// Unit returns the mesh unit the format's parameters are gridded on.
func (f Format) Unit() (mesh.Unit, error) {
	switch f {
	case TKY2JGD, PatchJGD, PatchJGDH, PatchJGDHV, HyokoRev:
		return mesh.UnitOne, nil
	case SemiDynaEXE, GeonetF3, ITRF2014:
		return mesh.UnitFive, nil
	}
	return 0, fmt.Errorf("trans: unknown format %q", string(f))
}
