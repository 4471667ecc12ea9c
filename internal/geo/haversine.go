package geo

import (
	"math"

	"github.com/UnknownOlympus/harvest/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	maxLatitude  = 90.0
	maxLongitude = 180.0
)

// Valid reports whether the coordinates are finite and within
// latitude [-90, 90] and longitude [-180, 180].
func Valid(c models.Coordinates) bool {
	// NaN fails every comparison, so it is rejected here as well.
	return c.Latitude >= -maxLatitude && c.Latitude <= maxLatitude &&
		c.Longitude >= -maxLongitude && c.Longitude <= maxLongitude
}

// Distance returns the great-circle distance between two points in kilometers,
// assuming a spherical Earth.
func Distance(from, to models.Coordinates) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLat := toRadians(to.Latitude - from.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Box is a latitude/longitude rectangle around Center. A box that crosses
// the antimeridian has MinLongitude > MaxLongitude.
type Box struct {
	Center       models.Coordinates
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// LongitudeRange is an inclusive, non-wrapping longitude interval.
type LongitudeRange struct {
	Min float64
	Max float64
}

// Wraps reports whether the box crosses the antimeridian.
func (b Box) Wraps() bool {
	return b.MinLongitude > b.MaxLongitude
}

// LongitudeRanges splits the box into non-wrapping intervals: one for a
// regular box, two for a box crossing the antimeridian.
func (b Box) LongitudeRanges() []LongitudeRange {
	if !b.Wraps() {
		return []LongitudeRange{{Min: b.MinLongitude, Max: b.MaxLongitude}}
	}

	return []LongitudeRange{
		{Min: b.MinLongitude, Max: maxLongitude},
		{Min: -maxLongitude, Max: b.MaxLongitude},
	}
}

// Contains reports whether c lies inside the box.
func (b Box) Contains(c models.Coordinates) bool {
	if c.Latitude < b.MinLatitude || c.Latitude > b.MaxLatitude {
		return false
	}

	for _, lr := range b.LongitudeRanges() {
		if c.Longitude >= lr.Min && c.Longitude <= lr.Max {
			return true
		}
	}

	return false
}

// BoundingBox returns the rectangle that contains every point within radiusKm
// of center. Latitudes are clamped; longitudes wrap around the antimeridian.
// Near the poles the box spans all longitudes.
func BoundingBox(center models.Coordinates, radiusKm float64) Box {
	deltaLat := radiusKm / EarthRadiusKm * 180 / math.Pi

	box := Box{
		Center:       center,
		MinLatitude:  math.Max(center.Latitude-deltaLat, -maxLatitude),
		MaxLatitude:  math.Min(center.Latitude+deltaLat, maxLatitude),
		MinLongitude: -maxLongitude,
		MaxLongitude: maxLongitude,
	}

	cosLat := math.Cos(toRadians(center.Latitude))
	if box.MaxLatitude >= maxLatitude || box.MinLatitude <= -maxLatitude || cosLat <= 0 {
		return box
	}

	deltaLon := deltaLat / cosLat
	if deltaLon >= maxLongitude {
		return box
	}

	box.MinLongitude = center.Longitude - deltaLon
	if box.MinLongitude < -maxLongitude {
		box.MinLongitude += 2 * maxLongitude
	}
	box.MaxLongitude = center.Longitude + deltaLon
	if box.MaxLongitude > maxLongitude {
		box.MaxLongitude -= 2 * maxLongitude
	}

	return box
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
