package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64
	Longitude float64
}

// DistanceMeters returns the great-circle distance between two points.
func DistanceMeters(a, b Point) float64 {
	return geo.Distance(
		orb.Point{a.Longitude, a.Latitude},
		orb.Point{b.Longitude, b.Latitude},
	)
}

// WithinRadius reports whether candidate lies within radiusMeters of center.
// A non-positive radius disables the check.
func WithinRadius(center, candidate Point, radiusMeters float64) bool {
	if radiusMeters <= 0 {
		return true
	}
	return DistanceMeters(center, candidate) <= radiusMeters
}
