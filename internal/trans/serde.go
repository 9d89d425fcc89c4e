package trans

import (
	"encoding/json"
	"fmt"

	"datumtrans-api/internal/mesh"
)

// transformerJSON is the wire shape of a serialized parameter table. Either
// "unit" or "format" must be present; "unit" wins when both are.
type transformerJSON struct {
	Description string            `json:"description,omitempty"`
	Format      string            `json:"format,omitempty"`
	Unit        *int              `json:"unit,omitempty"`
	Parameter   map[int]Parameter `json:"parameter"`
}

// FromJSON deserializes a parameter table. The document must carry either a
// "unit" key (1 or 5) or a "format" key naming a known parameter file format.
func FromJSON(data []byte) (*Transformer, error) {
	var doc transformerJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("trans: decoding transformer: %w", err)
	}

	var unit mesh.Unit
	switch {
	case doc.Unit != nil:
		unit = mesh.Unit(*doc.Unit)
	case doc.Format != "":
		u, err := Format(doc.Format).Unit()
		if err != nil {
			return nil, err
		}
		unit = u
	default:
		return nil, fmt.Errorf("trans: decoding transformer: missing unit and format")
	}

	if doc.Parameter == nil {
		doc.Parameter = map[int]Parameter{}
	}
	t, err := New(unit, doc.Parameter, doc.Description)
	if err != nil {
		return nil, err
	}
	t.Format = Format(doc.Format)
	return t, nil
}

// ToJSON serializes the transformer so that FromJSON restores it.
func (t *Transformer) ToJSON() ([]byte, error) {
	unit := int(t.Unit)
	data, err := json.Marshal(transformerJSON{
		Description: t.Description,
		Format:      string(t.Format),
		Unit:        &unit,
		Parameter:   t.Parameter,
	})
	if err != nil {
		return nil, fmt.Errorf("trans: encoding transformer: %w", err)
	}
	return data, nil
}
