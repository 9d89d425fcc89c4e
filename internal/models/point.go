package models

// Point is a geographic coordinate triplet: latitude and longitude in decimal degrees, altitude in meters.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// PointDMS is a point with latitude and longitude rendered in DMS (sexagesimal) notation.
type PointDMS struct {
	Latitude  string  `json:"latitude"`
	Longitude string  `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// ParameterSetInfo describes one stored parameter set without its parameter rows.
type ParameterSetInfo struct {
	Name        string `json:"name"`
	Format      string `json:"format"`
	Unit        int    `json:"unit"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}
