package trans

import (
	"testing"

	"datumtrans-api/internal/mesh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONWithUnit(t *testing.T) {
	data := []byte(`{
		"unit": 1,
		"description": "my param",
		"parameter": {
			"12345678": {"latitude": 0.1, "longitude": 0.2, "altitude": 0.3},
			"12345679": {"latitude": 0.4, "longitude": 0.5, "altitude": 0.6}
		}
	}`)

	tr, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, mesh.UnitOne, tr.Unit)
	assert.Equal(t, "my param", tr.Description)
	assert.Equal(t, map[int]Parameter{
		12345678: {Latitude: 0.1, Longitude: 0.2, Altitude: 0.3},
		12345679: {Latitude: 0.4, Longitude: 0.5, Altitude: 0.6},
	}, tr.Parameter)
}

func TestFromJSONWithFormat(t *testing.T) {
	data := []byte(`{
		"format": "SemiDynaEXE",
		"parameter": {
			"54401005": {"latitude": -0.00622, "longitude": 0.01516, "altitude": 0.0946}
		}
	}`)

	tr, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, mesh.UnitFive, tr.Unit)
	assert.Equal(t, SemiDynaEXE, tr.Format)
}

func TestFromJSONUnitWinsOverFormat(t *testing.T) {
	data := []byte(`{"unit": 1, "format": "SemiDynaEXE", "parameter": {}}`)

	tr, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, mesh.UnitOne, tr.Unit)
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing unit and format", data: `{"parameter": {}}`},
		{name: "unknown format", data: `{"format": "NoSuchFormat", "parameter": {}}`},
		{name: "invalid unit", data: `{"unit": 3, "parameter": {}}`},
		{name: "malformed json", data: `{"unit": 1,`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	original, err := New(mesh.UnitFive, map[int]Parameter{
		54401005: {Latitude: -0.00622, Longitude: 0.01516, Altitude: 0.0946},
		54401055: {Latitude: -0.0062, Longitude: 0.01529, Altitude: 0.08972},
	}, "for the crustal deformation")
	require.NoError(t, err)
	original.Format = SemiDynaEXE

	data, err := original.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, original.Unit, restored.Unit)
	assert.Equal(t, original.Format, restored.Format)
	assert.Equal(t, original.Description, restored.Description)
	assert.Equal(t, original.Parameter, restored.Parameter)
}
