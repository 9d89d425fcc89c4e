package par

import (
	"strings"
	"testing"

	"datumtrans-api/internal/mesh"
	"datumtrans-api/internal/trans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTKY2JGD(t *testing.T) {
	text := strings.Repeat("\n", 2) +
		"54401027  11.49105 -11.80078\n" +
		"54401037  11.48732 -11.80198\n" +
		"54401028  11.49096 -11.80476\n" +
		"54401038  11.48769 -11.80555\n"

	tr, err := Parse(text, trans.TKY2JGD, "")
	require.NoError(t, err)
	assert.Equal(t, mesh.UnitOne, tr.Unit)
	assert.Equal(t, trans.TKY2JGD, tr.Format)
	assert.Equal(t, map[int]trans.Parameter{
		54401027: {Latitude: 11.49105, Longitude: -11.80078},
		54401037: {Latitude: 11.48732, Longitude: -11.80198},
		54401028: {Latitude: 11.49096, Longitude: -11.80476},
		54401038: {Latitude: 11.48769, Longitude: -11.80555},
	}, tr.Parameter)
}

func TestParseWithoutTrailingNewline(t *testing.T) {
	text := strings.Repeat("\n", 2) + "12345678   0.00001   0.00002"

	tr, err := Parse(text, trans.TKY2JGD, "")
	require.NoError(t, err)
	assert.Equal(t, map[int]trans.Parameter{
		12345678: {Latitude: 0.00001, Longitude: 0.00002},
	}, tr.Parameter)

	// A trailing newline yields the same table.
	withEOF, err := Parse(text+"\n", trans.TKY2JGD, "")
	require.NoError(t, err)
	assert.Equal(t, tr.Parameter, withEOF.Parameter)
}

func TestParseNoParameter(t *testing.T) {
	tr, err := Parse(strings.Repeat("\n", 2), trans.TKY2JGD, "")
	require.NoError(t, err)
	assert.Empty(t, tr.Parameter)
}

func TestParseSemiDynaEXE(t *testing.T) {
	text := strings.Repeat("\n", 16) +
		"54401005  -0.00622   0.01516   0.09460\n" +
		"54401055  -0.00620   0.01529   0.08972\n" +
		"54401100  -0.00663   0.01492   0.10374\n" +
		"54401150  -0.00664   0.01506   0.10087\n"

	tr, err := Parse(text, trans.SemiDynaEXE, "")
	require.NoError(t, err)
	assert.Equal(t, mesh.UnitFive, tr.Unit)
	assert.Equal(t, map[int]trans.Parameter{
		54401005: {Latitude: -0.00622, Longitude: 0.01516, Altitude: 0.0946},
		54401055: {Latitude: -0.0062, Longitude: 0.01529, Altitude: 0.08972},
		54401100: {Latitude: -0.00663, Longitude: 0.01492, Altitude: 0.10374},
		54401150: {Latitude: -0.00664, Longitude: 0.01506, Altitude: 0.10087},
	}, tr.Parameter)
}

func TestParsePatchJGDH(t *testing.T) {
	// The H format carries only vertical corrections.
	text := strings.Repeat("\n", 16) +
		"12345678   0.00001   0.00000\n"

	tr, err := Parse(text, trans.PatchJGDH, "")
	require.NoError(t, err)
	assert.Equal(t, map[int]trans.Parameter{
		12345678: {Altitude: 0.00001},
	}, tr.Parameter)
}

func TestParseHyokoRev(t *testing.T) {
	text := strings.Repeat("\n", 16) +
		"12345678      0.00001\n"

	tr, err := Parse(text, trans.HyokoRev, "")
	require.NoError(t, err)
	assert.Equal(t, map[int]trans.Parameter{
		12345678: {Altitude: 0.00001},
	}, tr.Parameter)
}

func TestParseGeonetF3(t *testing.T) {
	text := strings.Repeat("\n", 18) +
		"12345678      0.00001   0.00002   0.00003\n"

	tr, err := Parse(text, trans.GeonetF3, "")
	require.NoError(t, err)
	assert.Equal(t, mesh.UnitFive, tr.Unit)
	assert.Equal(t, map[int]trans.Parameter{
		12345678: {Latitude: 0.00001, Longitude: 0.00002, Altitude: 0.00003},
	}, tr.Parameter)
}

func TestParseDescription(t *testing.T) {
	text := "first header line\nsecond header line\n" +
		"12345678   0.00001   0.00002\n"

	tr, err := Parse(text, trans.TKY2JGD, "")
	require.NoError(t, err)
	assert.Equal(t, "first header line\nsecond header line\n", tr.Description)

	tr, err = Parse(text, trans.TKY2JGD, "override")
	require.NoError(t, err)
	assert.Equal(t, "override", tr.Description)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		format trans.Format
		field  string
	}{
		{
			name:   "short header",
			text:   strings.Repeat("\n", 15),
			format: trans.PatchJGD,
		},
		{
			name:   "malformed meshcode",
			text:   strings.Repeat("\n", 16) + "123a5678   0.00001   0.00002   0.00003",
			format: trans.SemiDynaEXE,
			field:  "meshcode",
		},
		{
			name:   "malformed latitude",
			text:   strings.Repeat("\n", 16) + "12345678   0.0000a   0.00002   0.00003",
			format: trans.SemiDynaEXE,
			field:  "latitude",
		},
		{
			name:   "malformed longitude",
			text:   strings.Repeat("\n", 16) + "12345678   0.00001   0.0000a   0.00003",
			format: trans.SemiDynaEXE,
			field:  "longitude",
		},
		{
			name:   "malformed altitude",
			text:   strings.Repeat("\n", 16) + "12345678   0.00001   0.00002   0.0000a",
			format: trans.SemiDynaEXE,
			field:  "altitude",
		},
		{
			name:   "record too short",
			text:   strings.Repeat("\n", 16) + "12345678   0.00001",
			format: trans.SemiDynaEXE,
			field:  "longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text, tt.format, "")
			require.Error(t, err)

			if tt.field != "" {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, tt.field, parseErr.Field)
				assert.Equal(t, 17, parseErr.Line)
			}
		})
	}
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse("", trans.Format("Hi!"), "")
	assert.Error(t, err)
}

func TestParsedTransformerForward(t *testing.T) {
	text := strings.Repeat("\n", 16) +
		"54401005  -0.00622   0.01516   0.09460\n" +
		"54401055  -0.00620   0.01529   0.08972\n" +
		"54401100  -0.00663   0.01492   0.10374\n" +
		"54401150  -0.00664   0.01506   0.10087\n"

	tr, err := Parse(text, trans.SemiDynaEXE, "")
	require.NoError(t, err)

	corr, err := tr.ForwardCorrection(36.103774791666666, 140.08785504166664)
	require.NoError(t, err)
	assert.InDelta(t, -1.7729e-6, corr.Latitude, 1e-9)
	assert.InDelta(t, 4.2023e-6, corr.Longitude, 1e-9)
	assert.InDelta(t, 0.0963, corr.Altitude, 1e-4)
}