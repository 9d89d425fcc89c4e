// Package par parses the fixed-width parameter files distributed for each
// transformation, such as TKY2JGD.par or SemiDyna2023.par.
package par

import (
	"fmt"
	"strconv"
	"strings"

	"datumtrans-api/internal/trans"
)

// column is a half-open byte range within a record line. A zero column means
// the format does not carry the field and it parses as 0.
type column struct {
	start, end int
}

func (c column) zero() bool {
	return c.start == 0 && c.end == 0
}

// layout describes one parameter file format: the number of header lines and
// the byte ranges of the record fields.
type layout struct {
	header    int
	meshcode  column
	latitude  column
	longitude column
	altitude  column
}

var layouts = map[trans.Format]layout{
	trans.TKY2JGD:     {2, column{0, 8}, column{9, 18}, column{19, 28}, column{}},
	trans.PatchJGD:    {16, column{0, 8}, column{9, 18}, column{19, 28}, column{}},
	trans.PatchJGDH:   {16, column{0, 8}, column{}, column{}, column{9, 18}},
	trans.PatchJGDHV:  {16, column{0, 8}, column{9, 18}, column{19, 28}, column{29, 38}},
	trans.HyokoRev:    {16, column{0, 8}, column{}, column{}, column{12, 21}},
	trans.SemiDynaEXE: {16, column{0, 8}, column{9, 18}, column{19, 28}, column{29, 38}},
	trans.GeonetF3:    {18, column{0, 8}, column{12, 21}, column{22, 31}, column{32, 41}},
	trans.ITRF2014:    {18, column{0, 8}, column{12, 21}, column{22, 31}, column{32, 41}},
}

// ParseError reports a malformed record, locating the line and field.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("par: line %d: parsing %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseFloat(line string, c column, field string, lineno int) (float64, error) {
	if c.zero() {
		return 0, nil
	}
	if len(line) < c.end {
		return 0, &ParseError{lineno, field, fmt.Errorf("record is %d bytes, need %d", len(line), c.end)}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line[c.start:c.end]), 64)
	if err != nil {
		return 0, &ParseError{lineno, field, err}
	}
	return v, nil
}

// Parse reads the text of a parameter file in the given format. When
// description is empty the header lines of the file are used instead.
func Parse(text string, format trans.Format, description string) (*trans.Transformer, error) {
	l, ok := layouts[format]
	if !ok {
		return nil, fmt.Errorf("par: unknown format %q", string(format))
	}
	unit, err := format.Unit()
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		// Trailing newline.
		lines = lines[:len(lines)-1]
	}
	if len(lines) < l.header {
		return nil, fmt.Errorf("par: file has %d lines, expected at least %d header lines", len(lines), l.header)
	}
	if description == "" {
		description = strings.Join(lines[:l.header], "\n") + "\n"
	}

	parameter := make(map[int]trans.Parameter, len(lines)-l.header)
	for i, line := range lines[l.header:] {
		lineno := l.header + i + 1

		if len(line) < l.meshcode.end {
			return nil, &ParseError{lineno, "meshcode", fmt.Errorf("record is %d bytes, need %d", len(line), l.meshcode.end)}
		}
		meshcode, err := strconv.Atoi(strings.TrimSpace(line[l.meshcode.start:l.meshcode.end]))
		if err != nil {
			return nil, &ParseError{lineno, "meshcode", err}
		}

		latitude, err := parseFloat(line, l.latitude, "latitude", lineno)
		if err != nil {
			return nil, err
		}
		longitude, err := parseFloat(line, l.longitude, "longitude", lineno)
		if err != nil {
			return nil, err
		}
		altitude, err := parseFloat(line, l.altitude, "altitude", lineno)
		if err != nil {
			return nil, err
		}

		parameter[meshcode] = trans.Parameter{
			Latitude:  latitude,
			Longitude: longitude,
			Altitude:  altitude,
		}
	}

	t, err := trans.New(unit, parameter, description)
	if err != nil {
		return nil, err
	}
	t.Format = format
	return t, nil
}
