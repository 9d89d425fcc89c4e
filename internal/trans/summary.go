package trans

import "math"

// Statistics summarizes one component of a parameter table. NaN entries are
// excluded from every figure; all figures are NaN when no finite entry exists.
type Statistics struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Abs   float64 `json:"abs"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Summary holds the per-component statistics of a parameter table. Latitude
// and longitude figures are in arc-seconds, altitude in meters.
type Summary struct {
	Latitude  Statistics `json:"latitude"`
	Longitude Statistics `json:"longitude"`
	Altitude  Statistics `json:"altitude"`
}

func statistics(values []float64) Statistics {
	s := Statistics{
		Mean: math.NaN(), Std: math.NaN(), Abs: math.NaN(),
		Min: math.NaN(), Max: math.NaN(),
	}

	var sum, sumAbs float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if s.Count == 0 {
			s.Min, s.Max = v, v
		} else {
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
		}
		sum += v
		sumAbs += math.Abs(v)
		s.Count++
	}
	if s.Count == 0 {
		return s
	}

	n := float64(s.Count)
	s.Mean = sum / n
	s.Abs = sumAbs / n

	var sq float64
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - s.Mean
		sq += d * d
	}
	s.Std = math.Sqrt(sq / n)
	return s
}

// Summary computes per-component statistics over the whole parameter table.
func (t *Transformer) Summary() Summary {
	lats := make([]float64, 0, len(t.Parameter))
	lngs := make([]float64, 0, len(t.Parameter))
	alts := make([]float64, 0, len(t.Parameter))
	for _, p := range t.Parameter {
		lats = append(lats, p.Latitude)
		lngs = append(lngs, p.Longitude)
		alts = append(alts, p.Altitude)
	}
	return Summary{
		Latitude:  statistics(lats),
		Longitude: statistics(lngs),
		Altitude:  statistics(alts),
	}
}
