package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate is returned when a latitude or longitude is outside its
// valid range. This is always a caller bug, never retryable.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

const earthRadiusKm = 6371.0

// Point is a geographic position in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the point is a real coordinate: lat in [-90, 90] and
// lon in [-180, 180].
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, p.Lat, p.Lon)
	}
	return nil
}

// DistanceKm returns the great-circle (haversine) distance between a and b in
// kilometers.
func DistanceKm(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}

	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c, nil
}

// Midpoint returns the point on the great circle equidistant from a and b.
// Each point is converted to a 3D unit vector, the vectors are averaged and
// renormalized back onto the sphere. Naive lat/lon averaging breaks down near
// the antimeridian and the poles.
func Midpoint(a, b Point) (Point, error) {
	if err := a.Validate(); err != nil {
		return Point{}, err
	}
	if err := b.Validate(); err != nil {
		return Point{}, err
	}

	latA, lonA := radians(a.Lat), radians(a.Lon)
	latB, lonB := radians(b.Lat), radians(b.Lon)

	x := math.Cos(latA)*math.Cos(lonA) + math.Cos(latB)*math.Cos(lonB)
	y := math.Cos(latA)*math.Sin(lonA) + math.Cos(latB)*math.Sin(lonB)
	z := math.Sin(latA) + math.Sin(latB)

	hyp := math.Sqrt(x*x + y*y)
	return Point{
		Lat: degrees(math.Atan2(z, hyp)),
		Lon: degrees(math.Atan2(y, x)),
	}, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
