// Package geospatial has the great-circle helpers behind proximity search.
package geospatial

import "math"

// EarthRadiusMeters is the IUGG mean Earth radius.
const EarthRadiusMeters = 6371008.8

const metersPerDegreeLat = 111320.0

// Valid reports whether lat is in [-90, 90] and lon in [-180, 180].
func Valid(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Distance returns the haversine distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dPhi := phi2 - phi1
	dLambda := radians(lon2 - lon1)

	h := hav(dPhi) + math.Cos(phi1)*math.Cos(phi2)*hav(dLambda)
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(math.Min(1, h)))
}

// Box is a lat/lon rectangle.
type Box struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Contains reports whether the point lies in b, edges included.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// BoxAround returns a rectangle enclosing every point within radius meters
// of (lat, lon). Near the poles the longitude span widens to the whole
// range.
func BoxAround(lat, lon, radius float64) Box {
	dLat := radius / metersPerDegreeLat
	b := Box{
		MinLat: math.Max(-90, lat-dLat),
		MaxLat: math.Min(90, lat+dLat),
		MinLon: -180,
		MaxLon: 180,
	}
	if cos := math.Cos(radians(lat)); cos > 1e-9 {
		dLon := radius / (metersPerDegreeLat * cos)
		if dLon < 180 {
			b.MinLon, b.MaxLon = lon-dLon, lon+dLon
		}
	}
	return b
}

// Within reports whether (lat, lon) is at most radius meters from the
// center. The box check rejects far points before the trigonometry runs.
func Within(centerLat, centerLon, radius, lat, lon float64) bool {
	if !BoxAround(centerLat, centerLon, radius).Contains(lat, lon) {
		return false
	}
	return Distance(centerLat, centerLon, lat, lon) <= radius
}

func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
